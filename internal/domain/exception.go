package domain

// ExceptionType classifies what kind of reported issue an exception covers.
type ExceptionType string

const (
	// ExceptionQuantityMismatch covers an approved billing/subscription
	// quantity difference. The zero value of Type means the same thing.
	ExceptionQuantityMismatch ExceptionType = "quantity_mismatch"
	ExceptionMissingTenantID  ExceptionType = "missing_tenant_id"
	ExceptionMissingExpiry    ExceptionType = "missing_expiry"
)

// Exception apply_to scopes.
const (
	ApplyToClient    = "client"
	ApplyToUnmatched = "unmatched"
)

// Exception is an operator-approved deviation. A zero ClientID makes the
// exception global (any client); an empty ProductID makes it
// product-agnostic. Records are immutable once stored: operators add and
// remove them, the engine only reads.
type Exception struct {
	ID                      string        `json:"id,omitempty"`
	ClientID                int           `json:"client_id"`
	ProductID               int           `json:"product_id,omitempty"`
	ManufacturerStockCode   string        `json:"manufacturer_stock_code"`
	ExpectedBillingQty      int           `json:"expected_whmcs_qty"`
	ExpectedSubscriptionQty int           `json:"expected_dicker_qty"`
	SubscriptionID          string        `json:"subscription_id,omitempty"`
	Type                    ExceptionType `json:"type,omitempty"`
	ApplyTo                 string        `json:"apply_to,omitempty"`
	Reason                  string        `json:"reason"`
	CreatedAt               string        `json:"created_at,omitempty"`
	CreatedBy               string        `json:"created_by,omitempty"`
}

// IsGlobal reports whether the exception applies to any client.
func (e Exception) IsGlobal() bool {
	return e.ClientID == 0
}

// NormalizedStockCode returns the exception's stock code in canonical form.
func (e Exception) NormalizedStockCode() string {
	return NormalizeStockCode(e.ManufacturerStockCode)
}
