package usecase

import (
	"strings"

	"o365-reconciler/internal/domain"
)

// Aggregate groups billing line items into one working record per client.
// The first row seen for a client seeds its company name, tenant list and
// expiry marker; rows for the same (client, product) pair sum their
// quantities. Each client's subscription list is resolved by looking up every
// tenant ID against the indexed subscription snapshot. First-seen client
// ordering is preserved so repeated runs over identical snapshots produce
// identical output.
func Aggregate(lineItems []domain.BillingLineItem, subsByTenant map[string][]domain.Subscription) []*domain.ClientRecord {
	var clients []*domain.ClientRecord
	byID := make(map[int]*domain.ClientRecord)

	for _, row := range lineItems {
		client, ok := byID[row.ClientID]
		if !ok {
			client = &domain.ClientRecord{
				ID:            row.ClientID,
				CompanyName:   row.CompanyName,
				Expiry:        row.Expiry,
				TenantIDs:     row.TenantIDs,
				Products:      make(map[int]*domain.ClientProduct),
				Subscriptions: subscriptionsForTenants(row.TenantIDs, subsByTenant),
			}
			byID[row.ClientID] = client
			clients = append(clients, client)
		}

		if product, ok := client.Products[row.ProductID]; ok {
			product.Quantity += row.Quantity
		} else {
			client.Products[row.ProductID] = &domain.ClientProduct{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Quantity:    row.Quantity,
			}
		}
	}

	return clients
}

// subscriptionsForTenants concatenates the subscriptions of every tenant in
// the list. Blank tenant IDs are skipped; a tenant with no subscriptions
// contributes nothing.
func subscriptionsForTenants(tenantIDs []string, subsByTenant map[string][]domain.Subscription) []domain.Subscription {
	var matches []domain.Subscription
	for _, tid := range tenantIDs {
		tid = strings.TrimSpace(tid)
		if tid == "" {
			continue
		}
		matches = append(matches, subsByTenant[tid]...)
	}
	return matches
}
