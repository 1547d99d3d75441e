package domain

// DiscrepancyState classifies a quantity mismatch from the reseller's
// point of view: overcharging means the client is billed for more licences
// than the distributor has provisioned.
type DiscrepancyState string

const (
	StateOvercharging  DiscrepancyState = "overcharging"
	StateUndercharging DiscrepancyState = "undercharging"
	StateUnmatched     DiscrepancyState = "unmatched"
)

// MatchedEntry is one row of a client's matrix: a group of subscriptions
// sharing a stock code, matched to a billing product, with the product
// quantity allocated proportionally across the product's groups.
type MatchedEntry struct {
	SubscriptionReference string `json:"subscription_reference"`
	StockDescription      string `json:"stock_description"`
	ManufacturerStockCode string `json:"manufacturer_stock_code"`
	MatchedProductID      int    `json:"matched_product_id"`
	MatchedProductName    string `json:"matched_product_name"`
	MatchedVia            string `json:"matched_via"`
	ProductQty            int    `json:"product_qty"`
	SubQty                int    `json:"sub_qty"`
	HasException          bool   `json:"has_exception"`
}

// UnmatchedSubscription is a distributor subscription no mapped billing
// product claimed.
type UnmatchedSubscription struct {
	SubscriptionReference string `json:"subscription_reference"`
	StockDescription      string `json:"stock_description"`
	ManufacturerStockCode string `json:"manufacturer_stock_code"`
	Quantity              int    `json:"quantity"`
	Reason                string `json:"reason"`
}

// Discrepancy is one reportable quantity mismatch.
type Discrepancy struct {
	ClientID              int              `json:"client_id"`
	CompanyName           string           `json:"companyname"`
	SubscriptionReference string           `json:"subscription_reference"`
	StockDescription      string           `json:"stock_description"`
	ManufacturerStockCode string           `json:"manufacturer_stock_code"`
	ProductName           string           `json:"product_name"`
	ProductQty            int              `json:"product_qty"`
	SubQty                int              `json:"sub_qty"`
	Difference            int              `json:"difference"`
	State                 DiscrepancyState `json:"state"`
}

// UnmatchedReportEntry is an unmatched subscription in the global report,
// annotated with the owning client.
type UnmatchedReportEntry struct {
	ClientID              int              `json:"client_id"`
	CompanyName           string           `json:"companyname"`
	SubscriptionReference string           `json:"subscription_reference"`
	StockDescription      string           `json:"stock_description"`
	ManufacturerStockCode string           `json:"manufacturer_stock_code"`
	Quantity              int              `json:"quantity"`
	Reason                string           `json:"reason"`
	State                 DiscrepancyState `json:"state"`
}

// AppliedException records a mismatch or unmatched subscription that an
// operator-approved exception suppressed from the issue reports.
type AppliedException struct {
	ClientID              int    `json:"client_id"`
	CompanyName           string `json:"companyname"`
	SubscriptionReference string `json:"subscription_reference"`
	StockDescription      string `json:"stock_description"`
	ManufacturerStockCode string `json:"manufacturer_stock_code"`
	ProductName           string `json:"product_name,omitempty"`
	ProductQty            int    `json:"product_qty,omitempty"`
	SubQty                int    `json:"sub_qty,omitempty"`
	Quantity              int    `json:"quantity,omitempty"`
	Difference            int    `json:"difference,omitempty"`
	ExceptionReason       string `json:"exception_reason"`
	ExceptionCreatedAt    string `json:"exception_created_at"`
	ExceptionCreatedBy    string `json:"exception_created_by"`
}

// Report is the full output of one reconciliation run. Clients preserves the
// first-seen ordering of the billing feed so repeated runs over identical
// snapshots serialize identically.
type Report struct {
	Clients                      []*ClientRecord        `json:"clients"`
	DiscrepancyReport            []Discrepancy          `json:"discrepancy_report"`
	UnmatchedSubscriptionsReport []UnmatchedReportEntry `json:"unmatched_subscriptions_report"`
	ExceptionsApplied            []AppliedException     `json:"exceptions_applied"`
	ProblemClients               []ProblemClient        `json:"problem_clients"`
}
