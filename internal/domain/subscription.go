package domain

import (
	"bytes"
	"strconv"
	"strings"
)

// SubscriptionStatus values as reported by the distributor API.
const (
	SubscriptionActive = "ACTIVE"
)

// Quantity is an integer quantity that tolerates the distributor's loose
// typing: JSON numbers, numeric strings, null and empty strings all decode,
// with anything unparseable coerced to zero so a single bad record cannot
// abort a reconciliation pass.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*q = 0
		return nil
	}
	*q = Quantity(n)
	return nil
}

// Subscription is the single typed representation of a distributor
// subscription record. Field names and JSON tags follow the distributor's
// wire format so feed snapshots decode directly.
type Subscription struct {
	TenantID              string   `json:"TenantId"`
	SubscriptionReference string   `json:"SubscriptionReference"`
	SubscriptionID        string   `json:"SubscriptionId"`
	CompanyName           string   `json:"CompanyName"`
	StockCode             string   `json:"StockCode"`
	StockDescription      string   `json:"StockDescription"`
	ManufacturerStockCode string   `json:"ManufacturerStockCode"`
	Status                string   `json:"Status"`
	BillingFrequency      string   `json:"BillingFrequency"`
	ConfirmedQuantity     Quantity `json:"ConfirmedQuantity"`
	Trial                 bool     `json:"Trial"`
}

// NewSubscription normalizes a raw distributor record into the canonical
// entity: status upper-cased, stock code retained verbatim (matching is done
// through NormalizeStockCode), trial flag derived from the stock description.
func NewSubscription(raw Subscription) Subscription {
	raw.Status = strings.ToUpper(strings.TrimSpace(raw.Status))
	raw.TenantID = strings.TrimSpace(raw.TenantID)
	raw.Trial = strings.Contains(strings.ToLower(raw.StockDescription), "trial")
	return raw
}

// IsActive reports whether the subscription participates in reconciliation.
func (s Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}

// NormalizeStockCode canonicalizes a manufacturer stock code for matching:
// comparison is case- and surrounding-whitespace-insensitive everywhere a
// stock code is used as a key.
func NormalizeStockCode(msc string) string {
	return strings.ToLower(strings.TrimSpace(msc))
}
