package domain

import "strings"

// BillingLineItem represents one pre-joined line item row from the billing
// system: an active product on an active client account, together with the
// client's custom attributes (tenant IDs and licence expiry marker).
type BillingLineItem struct {
	ClientID    int      `json:"client_id"`
	ProductID   int      `json:"product_id"`
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	CompanyName string   `json:"companyname"`
	TenantIDs   []string `json:"tenant_ids"`
	Expiry      string   `json:"expiry"`
}

// ClientProduct is a client's aggregated holding of one billing product.
type ClientProduct struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"qty"`
}

// ClientRecord is the per-client working record rebuilt on every report run.
// Matrix and UnmatchedSubscriptions are populated by the matcher.
type ClientRecord struct {
	ID                     int                     `json:"id"`
	CompanyName            string                  `json:"companyname"`
	Expiry                 string                  `json:"expiry"`
	TenantIDs              []string                `json:"tenantID"`
	Products               map[int]*ClientProduct  `json:"products"`
	Subscriptions          []Subscription          `json:"subscriptions"`
	Matrix                 []MatchedEntry          `json:"matrix"`
	UnmatchedSubscriptions []UnmatchedSubscription `json:"unmatched_subscriptions"`
}

// ProblemClient is a client whose billing-system profile is missing one of
// the custom attributes reconciliation depends on.
type ProblemClient struct {
	ClientID    int    `json:"id"`
	CompanyName string `json:"companyname"`
	HasTenantID bool   `json:"tenantId"`
	HasExpiry   bool   `json:"expiry"`
}

// ParseTenantIDs splits the billing system's comma-separated tenant-ID custom
// field into individual IDs. Whitespace is stripped before splitting; empty
// segments are dropped.
func ParseTenantIDs(raw string) []string {
	cleaned := strings.ReplaceAll(raw, " ", "")
	if cleaned == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(cleaned, ",") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
