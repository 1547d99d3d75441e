package usecase

import (
	"regexp"
	"sort"
	"strings"

	"o365-reconciler/internal/domain"
)

// The suggester ranks a client's billing products as mapping candidates for
// a subscription, for display in the mapping editor. It is advisory only: a
// human approves a suggestion into the mapping store; the matcher never
// consults it.

// suggestionThreshold is the minimum score a candidate must reach.
const suggestionThreshold = 40.0

// MappingSuggestion is one scored candidate product for a subscription.
type MappingSuggestion struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Score       float64 `json:"score"`
}

// SuggestProducts scores every product the client holds against the
// subscription and returns candidates at or above the acceptance threshold,
// best first (ties broken by ascending product ID).
func SuggestProducts(sub domain.Subscription, products map[int]*domain.ClientProduct) []MappingSuggestion {
	var suggestions []MappingSuggestion
	for _, product := range products {
		score := matchScore(sub.SubscriptionReference, product.ProductName, sub.StockDescription)
		if score < suggestionThreshold {
			continue
		}
		suggestions = append(suggestions, MappingSuggestion{
			ProductID:   product.ProductID,
			ProductName: product.ProductName,
			Score:       score,
		})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].ProductID < suggestions[j].ProductID
	})
	return suggestions
}

// SuggestForClient maps each of the client's unmatched subscriptions to its
// ranked candidates. Subscriptions with no candidate are omitted.
func SuggestForClient(client *domain.ClientRecord) map[string][]MappingSuggestion {
	out := make(map[string][]MappingSuggestion)
	for _, unmatched := range client.UnmatchedSubscriptions {
		for _, sub := range client.Subscriptions {
			if sub.SubscriptionReference != unmatched.SubscriptionReference {
				continue
			}
			if suggestions := SuggestProducts(sub, client.Products); len(suggestions) > 0 {
				out[sub.SubscriptionReference] = suggestions
			}
			break
		}
	}
	return out
}

var planNumberRe = regexp.MustCompile(`(?i)plan\s+(\d+)`)

// extractPlanNumber pulls the "Plan N" designation out of a product or
// subscription name, "" when absent.
func extractPlanNumber(name string) string {
	if m := planNumberRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// matchScore rates how plausibly a subscription belongs to a product,
// clamped to [0, 100]. Base textual similarity is adjusted by plan-number
// agreement, billing-period keywords and product-family keywords; a
// Basic-vs-Standard tier conflict disqualifies the pair outright.
func matchScore(subscriptionRef, productName, stockDescription string) float64 {
	sub := strings.ToLower(strings.TrimSpace(subscriptionRef))
	prod := strings.ToLower(strings.TrimSpace(productName))
	stock := strings.ToLower(strings.TrimSpace(stockDescription))

	score := similarityPercent(sub, prod)

	subPlan := extractPlanNumber(sub)
	prodPlan := extractPlanNumber(prod)
	switch {
	case subPlan != "" && prodPlan != "":
		if subPlan == prodPlan {
			score += 20
		} else {
			score -= 30
		}
	case subPlan != "" && prodPlan == "":
		if subPlan == "1" {
			score += 5
		} else {
			score -= 15
		}
	}

	if stock != "" {
		monthlyStock := strings.Contains(stock, "1mth") || strings.Contains(stock, "month")
		yearlyStock := strings.Contains(stock, "1yr") || strings.Contains(stock, "year")
		monthlyProduct := strings.Contains(prod, "month")
		yearlyProduct := strings.Contains(prod, "year")

		switch {
		case monthlyStock && monthlyProduct:
			score += 25
		case yearlyStock && yearlyProduct:
			score += 25
		case monthlyStock && yearlyProduct:
			score -= 40
		case yearlyStock && monthlyProduct:
			score -= 40
		}
	}

	for _, keyword := range []string{"apps", "exchange", "business"} {
		if strings.Contains(sub, keyword) && strings.Contains(prod, keyword) {
			score += 10
		}
	}

	if stock != "" {
		if (strings.Contains(stock, "m365") || strings.Contains(stock, "microsoft 365")) && strings.Contains(prod, "365") {
			score += 15
		}
		if strings.Contains(stock, "exchange online") && strings.Contains(prod, "exchange") {
			score += 15
		}
		if strings.Contains(stock, "power bi") && strings.Contains(prod, "power bi") {
			score += 15
		}
	}

	// Tier check runs last: a Basic/Standard conflict overrides every bonus.
	subIsBasic := strings.Contains(sub, "basic") || strings.Contains(stock, "basic")
	subIsStandard := false
	if !subIsBasic {
		subIsStandard = strings.Contains(sub, "standar")
		if strings.Contains(stock, "std") && strings.Contains(sub, "standar") {
			subIsStandard = true
		}
	}
	prodIsBasic := strings.Contains(prod, "basic")
	prodIsStandard := strings.Contains(prod, "standard")

	if (subIsBasic && prodIsStandard) || (subIsStandard && prodIsBasic) {
		return 0
	}
	if (subIsBasic && prodIsBasic) || (subIsStandard && prodIsStandard) {
		score += 35
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// similarityPercent reproduces the similarity percentage of PHP's
// similar_text: matched characters are counted by recursively splitting
// around the longest common substring, then scaled to the combined length.
func similarityPercent(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	return float64(similarChars(a, b)) * 200 / float64(len(a)+len(b))
}

func similarChars(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	posA, posB, max := 0, 0, 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				posA, posB, max = i, j, k
			}
		}
	}
	if max == 0 {
		return 0
	}
	return max +
		similarChars(a[:posA], b[:posB]) +
		similarChars(a[posA+max:], b[posB+max:])
}
