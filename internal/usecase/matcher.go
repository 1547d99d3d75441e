package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"o365-reconciler/internal/domain"
)

const (
	matchedViaMapping = "mapping.json"

	// UnmatchedReasonNoMapping marks a subscription no mapped product claimed.
	UnmatchedReasonNoMapping = "No mapping found in mapping.json"
)

// MappingLookup indexes the mapping store for matching:
// product ID -> normalized stock code -> mapping entry.
type MappingLookup map[int]map[string]domain.MappingEntry

// BuildMappingLookup is computed once per report run, not per client.
func BuildMappingLookup(mappings []domain.ProductMapping) MappingLookup {
	lookup := make(MappingLookup, len(mappings))
	for _, mapping := range mappings {
		codes := make(map[string]domain.MappingEntry, len(mapping.Entries))
		for _, entry := range mapping.Entries {
			msc := domain.NormalizeStockCode(entry.ManufacturerStockCode)
			if msc != "" {
				codes[msc] = entry
			}
		}
		lookup[mapping.ProductID] = codes
	}
	return lookup
}

// stockCodeGroup accumulates the subscriptions a product claimed under one
// stock code. The first subscription claimed supplies the reference fields.
type stockCodeGroup struct {
	first  domain.Subscription
	subQty int
}

// MatchClient allocates the client's subscriptions to its billing products
// and fills in the client's matrix and unmatched list.
//
// Products are visited in ascending product-ID order; a product with no
// mapping entries is skipped entirely and claims nothing. Each subscription
// can be claimed by at most one product per client; claimed subscriptions are
// grouped by stock code and the product's aggregated billing quantity is
// split across the groups in proportion to their confirmed quantities,
// rounding half up. Subscriptions left unclaimed after the full product loop
// become unmatched entries.
func MatchClient(client *domain.ClientRecord, lookup MappingLookup) {
	client.Matrix = []domain.MatchedEntry{}
	client.UnmatchedSubscriptions = []domain.UnmatchedSubscription{}
	claimed := make(map[int]bool, len(client.Subscriptions))

	productIDs := make([]int, 0, len(client.Products))
	for pid := range client.Products {
		productIDs = append(productIDs, pid)
	}
	sort.Ints(productIDs)

	for _, pid := range productIDs {
		product := client.Products[pid]
		expected := lookup[pid]
		if len(expected) == 0 {
			// No mapping for this product: it is not tracked here.
			continue
		}

		var groupOrder []string
		groups := make(map[string]*stockCodeGroup)
		for i, sub := range client.Subscriptions {
			if claimed[i] {
				continue
			}
			msc := domain.NormalizeStockCode(sub.ManufacturerStockCode)
			if msc == "" {
				continue
			}
			if _, ok := expected[msc]; !ok {
				continue
			}
			group, ok := groups[msc]
			if !ok {
				group = &stockCodeGroup{first: sub}
				groups[msc] = group
				groupOrder = append(groupOrder, msc)
			}
			group.subQty += int(sub.ConfirmedQuantity)
			claimed[i] = true
		}

		if len(groupOrder) == 0 {
			// Product has a mapping but no claimable subscriptions; it
			// produces no matrix row.
			continue
		}

		totalSubQty := 0
		for _, msc := range groupOrder {
			totalSubQty += groups[msc].subQty
		}

		for _, msc := range groupOrder {
			group := groups[msc]
			client.Matrix = append(client.Matrix, domain.MatchedEntry{
				SubscriptionReference: group.first.SubscriptionReference,
				StockDescription:      group.first.StockDescription,
				ManufacturerStockCode: group.first.ManufacturerStockCode,
				MatchedProductID:      product.ProductID,
				MatchedProductName:    product.ProductName,
				MatchedVia:            matchedViaMapping,
				ProductQty:            allocateProportional(group.subQty, totalSubQty, product.Quantity),
				SubQty:                group.subQty,
			})
		}
	}

	for i, sub := range client.Subscriptions {
		if claimed[i] {
			continue
		}
		client.UnmatchedSubscriptions = append(client.UnmatchedSubscriptions, domain.UnmatchedSubscription{
			SubscriptionReference: sub.SubscriptionReference,
			StockDescription:      sub.StockDescription,
			ManufacturerStockCode: sub.ManufacturerStockCode,
			Quantity:              int(sub.ConfirmedQuantity),
			Reason:                UnmatchedReasonNoMapping,
		})
	}
}

// allocateProportional splits productQty across stock-code groups:
// round-half-up(groupQty / totalQty * productQty). A zero total yields zero,
// never a division error.
func allocateProportional(groupQty, totalQty, productQty int) int {
	if totalQty == 0 {
		return 0
	}
	allocated := decimal.NewFromInt(int64(groupQty)).
		Div(decimal.NewFromInt(int64(totalQty))).
		Mul(decimal.NewFromInt(int64(productQty))).
		Round(0)
	return int(allocated.IntPart())
}
