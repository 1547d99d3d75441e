package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"o365-reconciler/internal/domain"
	"o365-reconciler/internal/logger"
)

// ReconciliationUseCase orchestrates one report run: snapshot the feeds and
// stores, aggregate, match, then build the discrepancy report with the
// exception overlay applied.
type ReconciliationUseCase struct {
	billing       BillingFeed
	subscriptions SubscriptionFeed
	mappings      MappingStore
	exceptions    ExceptionStore
	logger        *logger.Logger
}

// NewReconciliationUseCase creates a new instance of the usecase.
func NewReconciliationUseCase(billing BillingFeed, subscriptions SubscriptionFeed, mappings MappingStore, exceptions ExceptionStore, log *logger.Logger) *ReconciliationUseCase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ReconciliationUseCase{
		billing:       billing,
		subscriptions: subscriptions,
		mappings:      mappings,
		exceptions:    exceptions,
		logger:        log,
	}
}

// GenerateReport performs a full reconciliation pass. Feed failures abort the
// run; unreadable mapping or exception state degrades to an empty snapshot so
// the report still completes (with every subscription surfacing as unmatched
// and zero exceptions applied), which is logged and traced rather than fatal.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, sink TraceSink) (*domain.Report, error) {
	lineItems, err := uc.billing.GetLineItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get billing line items: %w", err)
	}

	subsByTenant, err := uc.subscriptions.GetSubscriptionsByTenant(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get distributor subscriptions: %w", err)
	}

	problems, err := uc.billing.GetProblemClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get problem clients: %w", err)
	}

	mappings, err := uc.mappings.Load(ctx)
	if err != nil {
		uc.logger.Warnw("mapping store unreadable, proceeding with no mappings", "error", err)
		trace(sink, "mapping_store_fallback", map[string]any{"error": err.Error()})
		mappings = nil
	}

	exceptions, err := uc.exceptions.Load(ctx)
	if err != nil {
		uc.logger.Warnw("exception store unreadable, proceeding with no exceptions", "error", err)
		trace(sink, "exception_store_fallback", map[string]any{"error": err.Error()})
		exceptions = nil
	}

	uc.logger.Infow("generating reconciliation report",
		"line_items", len(lineItems),
		"billing_qty_total", lo.SumBy(lineItems, func(li domain.BillingLineItem) int { return li.Quantity }),
		"tenants", len(subsByTenant),
		"mappings", len(mappings),
		"exceptions", len(exceptions),
	)

	clients := Aggregate(lineItems, subsByTenant)
	lookup := BuildMappingLookup(mappings)
	for _, client := range clients {
		MatchClient(client, lookup)
	}

	resolver := NewExceptionResolver(exceptions)
	report := uc.buildReport(clients, resolver, sink)
	report.ProblemClients = uc.filterProblemClients(problems, resolver, sink)

	uc.logger.Infow("reconciliation report complete",
		"clients", len(report.Clients),
		"discrepancies", len(report.DiscrepancyReport),
		"unmatched", len(report.UnmatchedSubscriptionsReport),
		"exceptions_applied", len(report.ExceptionsApplied),
		"problem_clients", len(report.ProblemClients),
	)
	return report, nil
}

// buildReport runs the discrepancy engine over each client's matrix and
// unmatched list. A matched exception suppresses the entry even if the
// quantities happen to be equal; unmatched entries covered by an exception
// are removed from both the global report and the client's own list.
func (uc *ReconciliationUseCase) buildReport(clients []*domain.ClientRecord, resolver *ExceptionResolver, sink TraceSink) *domain.Report {
	report := &domain.Report{
		Clients:                      clients,
		DiscrepancyReport:            []domain.Discrepancy{},
		UnmatchedSubscriptionsReport: []domain.UnmatchedReportEntry{},
		ExceptionsApplied:            []domain.AppliedException{},
	}

	for _, client := range clients {
		for i := range client.Matrix {
			entry := &client.Matrix[i]
			exc, ok := resolver.FindQuantityException(client.ID, entry.MatchedProductID, entry.ManufacturerStockCode, entry.ProductQty, entry.SubQty)
			if ok {
				entry.HasException = true
				report.ExceptionsApplied = append(report.ExceptionsApplied, domain.AppliedException{
					ClientID:              client.ID,
					CompanyName:           client.CompanyName,
					SubscriptionReference: entry.SubscriptionReference,
					StockDescription:      entry.StockDescription,
					ManufacturerStockCode: domain.NormalizeStockCode(entry.ManufacturerStockCode),
					ProductName:           entry.MatchedProductName,
					ProductQty:            entry.ProductQty,
					SubQty:                entry.SubQty,
					Difference:            entry.SubQty - entry.ProductQty,
					ExceptionReason:       exceptionReason(exc),
					ExceptionCreatedAt:    exc.CreatedAt,
					ExceptionCreatedBy:    exc.CreatedBy,
				})
				continue
			}

			if entry.ProductQty == entry.SubQty {
				continue
			}
			state := domain.StateUndercharging
			if entry.ProductQty > entry.SubQty {
				state = domain.StateOvercharging
			}
			report.DiscrepancyReport = append(report.DiscrepancyReport, domain.Discrepancy{
				ClientID:              client.ID,
				CompanyName:           client.CompanyName,
				SubscriptionReference: entry.SubscriptionReference,
				StockDescription:      entry.StockDescription,
				ManufacturerStockCode: domain.NormalizeStockCode(entry.ManufacturerStockCode),
				ProductName:           entry.MatchedProductName,
				ProductQty:            entry.ProductQty,
				SubQty:                entry.SubQty,
				Difference:            entry.SubQty - entry.ProductQty,
				State:                 state,
			})
		}

		filtered := []domain.UnmatchedSubscription{}
		for _, unmatched := range client.UnmatchedSubscriptions {
			exc, ok := resolver.FindUnmatchedException(client.ID, unmatched.SubscriptionReference, unmatched.ManufacturerStockCode, unmatched.Quantity)
			if ok {
				report.ExceptionsApplied = append(report.ExceptionsApplied, domain.AppliedException{
					ClientID:              client.ID,
					CompanyName:           client.CompanyName,
					SubscriptionReference: unmatched.SubscriptionReference,
					StockDescription:      unmatched.StockDescription,
					ManufacturerStockCode: domain.NormalizeStockCode(unmatched.ManufacturerStockCode),
					Quantity:              unmatched.Quantity,
					ExceptionReason:       exceptionReason(exc),
					ExceptionCreatedAt:    exc.CreatedAt,
					ExceptionCreatedBy:    exc.CreatedBy,
				})
				continue
			}
			filtered = append(filtered, unmatched)
			report.UnmatchedSubscriptionsReport = append(report.UnmatchedSubscriptionsReport, domain.UnmatchedReportEntry{
				ClientID:              client.ID,
				CompanyName:           client.CompanyName,
				SubscriptionReference: unmatched.SubscriptionReference,
				StockDescription:      unmatched.StockDescription,
				ManufacturerStockCode: unmatched.ManufacturerStockCode,
				Quantity:              unmatched.Quantity,
				Reason:                unmatched.Reason,
				State:                 domain.StateUnmatched,
			})
		}
		// Keep the client's own list consistent with the global report.
		client.UnmatchedSubscriptions = filtered
	}

	return report
}

// filterProblemClients drops clients whose every missing attribute is covered
// by an attribute exception.
func (uc *ReconciliationUseCase) filterProblemClients(problems []domain.ProblemClient, resolver *ExceptionResolver, sink TraceSink) []domain.ProblemClient {
	return lo.Filter(problems, func(problem domain.ProblemClient, _ int) bool {
		excused := true
		if !problem.HasTenantID {
			if _, ok := resolver.FindClientAttributeException(problem.ClientID, domain.ExceptionMissingTenantID); !ok {
				excused = false
			}
		}
		if !problem.HasExpiry {
			if _, ok := resolver.FindClientAttributeException(problem.ClientID, domain.ExceptionMissingExpiry); !ok {
				excused = false
			}
		}
		if excused {
			trace(sink, "problem_client_excused", map[string]any{"client_id": problem.ClientID})
		}
		return !excused
	})
}

func exceptionReason(exc domain.Exception) string {
	if exc.Reason == "" {
		return "No reason provided"
	}
	return exc.Reason
}
