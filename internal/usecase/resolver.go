package usecase

import (
	"o365-reconciler/internal/domain"
)

// ExceptionResolver answers "is this issue covered by an operator-approved
// exception?" over a read-only snapshot of the exception store. All lookups
// are pure functions of (snapshot, query); the snapshot's insertion order is
// the tie-breaker everywhere, so identical stores always resolve identically.
type ExceptionResolver struct {
	exceptions []domain.Exception
}

func NewExceptionResolver(exceptions []domain.Exception) *ExceptionResolver {
	return &ExceptionResolver{exceptions: exceptions}
}

// Exceptions returns the underlying snapshot in stored order.
func (r *ExceptionResolver) Exceptions() []domain.Exception {
	return r.exceptions
}

// isQuantityException reports whether the record participates in quantity
// lookups at all. Attribute exceptions and unmatched-scoped records have
// their own lookup paths.
func isQuantityException(exc domain.Exception) bool {
	if exc.Type != "" && exc.Type != domain.ExceptionQuantityMismatch {
		return false
	}
	return exc.ApplyTo != domain.ApplyToUnmatched
}

// FindQuantityException returns the first stored exception covering the
// given matched-entry mismatch. A record matches when its stock code equals
// msc (case-insensitive), its client is global or equal, its product is unset
// or equal, and both expected quantities equal the observed ones exactly.
// First structural match in stored order wins; client-bound records are not
// preferred over global ones.
func (r *ExceptionResolver) FindQuantityException(clientID, productID int, msc string, billingQty, subQty int) (domain.Exception, bool) {
	msc = domain.NormalizeStockCode(msc)
	if msc == "" {
		return domain.Exception{}, false
	}
	for _, exc := range r.exceptions {
		if !isQuantityException(exc) {
			continue
		}
		if exc.NormalizedStockCode() != msc {
			continue
		}
		if !exc.IsGlobal() && exc.ClientID != clientID {
			continue
		}
		if exc.ProductID != 0 && exc.ProductID != productID {
			continue
		}
		if exc.ExpectedBillingQty != billingQty || exc.ExpectedSubscriptionQty != subQty {
			continue
		}
		return exc, true
	}
	return domain.Exception{}, false
}

// FindUnmatchedException returns the first stored exception covering an
// unmatched subscription. An exact subscription-reference match takes
// priority over a stock-code match; within each tier the first hit in stored
// order wins. Both tiers require the subscription quantity to equal the
// exception's expected subscription quantity and the record to be global or
// bound to this client.
func (r *ExceptionResolver) FindUnmatchedException(clientID int, subscriptionRef, msc string, quantity int) (domain.Exception, bool) {
	msc = domain.NormalizeStockCode(msc)

	if subscriptionRef != "" {
		for _, exc := range r.exceptions {
			if exc.Type != "" && exc.Type != domain.ExceptionQuantityMismatch {
				continue
			}
			if exc.SubscriptionID == "" || exc.SubscriptionID != subscriptionRef {
				continue
			}
			if !exc.IsGlobal() && exc.ClientID != clientID {
				continue
			}
			if exc.ExpectedSubscriptionQty != quantity {
				continue
			}
			return exc, true
		}
	}

	if msc == "" {
		return domain.Exception{}, false
	}
	for _, exc := range r.exceptions {
		if exc.Type != "" && exc.Type != domain.ExceptionQuantityMismatch {
			continue
		}
		if exc.NormalizedStockCode() != msc {
			continue
		}
		if !exc.IsGlobal() && exc.ClientID != clientID {
			continue
		}
		if exc.ExpectedSubscriptionQty != quantity {
			continue
		}
		return exc, true
	}
	return domain.Exception{}, false
}

// FindClientAttributeException returns the exception excusing a missing
// client attribute. Attribute exceptions are always client-bound; there is
// no global form.
func (r *ExceptionResolver) FindClientAttributeException(clientID int, typ domain.ExceptionType) (domain.Exception, bool) {
	if clientID == 0 {
		return domain.Exception{}, false
	}
	for _, exc := range r.exceptions {
		if exc.Type != typ {
			continue
		}
		if exc.ClientID != clientID {
			continue
		}
		return exc, true
	}
	return domain.Exception{}, false
}
