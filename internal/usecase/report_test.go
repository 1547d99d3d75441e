package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"o365-reconciler/internal/domain"
	"o365-reconciler/internal/logger"
	mock_usecase "o365-reconciler/internal/usecase/mocks"
)

type reportFixture struct {
	billing       *mock_usecase.MockBillingFeed
	subscriptions *mock_usecase.MockSubscriptionFeed
	mappings      *mock_usecase.MockMappingStore
	exceptions    *mock_usecase.MockExceptionStore
	uc            *ReconciliationUseCase
}

func newReportFixture(ctrl *gomock.Controller) *reportFixture {
	f := &reportFixture{
		billing:       mock_usecase.NewMockBillingFeed(ctrl),
		subscriptions: mock_usecase.NewMockSubscriptionFeed(ctrl),
		mappings:      mock_usecase.NewMockMappingStore(ctrl),
		exceptions:    mock_usecase.NewMockExceptionStore(ctrl),
	}
	f.uc = NewReconciliationUseCase(f.billing, f.subscriptions, f.mappings, f.exceptions, logger.NewNopLogger())
	return f
}

func basicLineItems() []domain.BillingLineItem {
	return []domain.BillingLineItem{
		{ClientID: 10, ProductID: 500, ProductName: "Microsoft 365 Business Basic", Quantity: 8, CompanyName: "Acme Pty Ltd", TenantIDs: []string{"tenant-a"}, Expiry: "2026-12-01"},
	}
}

func basicSubscriptions() map[string][]domain.Subscription {
	return map[string][]domain.Subscription{
		"tenant-a": {
			{
				TenantID:              "tenant-a",
				SubscriptionReference: "SR-100",
				SubscriptionID:        "sub-100",
				StockDescription:      "Microsoft 365 Business Basic",
				ManufacturerStockCode: "CFQ7TTC0LH18:P1Y",
				Status:                domain.SubscriptionActive,
				ConfirmedQuantity:     4,
			},
		},
	}
}

func basicMappings() []domain.ProductMapping {
	return []domain.ProductMapping{
		{
			ProductID:   500,
			ProductName: "Microsoft 365 Business Basic",
			Entries: []domain.MappingEntry{
				{ManufacturerStockCode: "CFQ7TTC0LH18:P1Y", SubscriptionReference: "SR-100", StockDescription: "Microsoft 365 Business Basic"},
			},
		},
	}
}

func (f *reportFixture) expectSnapshots(lineItems []domain.BillingLineItem, subs map[string][]domain.Subscription, mappings []domain.ProductMapping, exceptions []domain.Exception, times int) {
	f.billing.EXPECT().GetLineItems(gomock.Any()).Return(lineItems, nil).Times(times)
	f.billing.EXPECT().GetProblemClients(gomock.Any()).Return(nil, nil).Times(times)
	f.subscriptions.EXPECT().GetSubscriptionsByTenant(gomock.Any()).Return(subs, nil).Times(times)
	f.mappings.EXPECT().Load(gomock.Any()).Return(mappings, nil).Times(times)
	f.exceptions.EXPECT().Load(gomock.Any()).Return(exceptions, nil).Times(times)
}

func TestGenerateReport_Overcharging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReportFixture(ctrl)
	f.expectSnapshots(basicLineItems(), basicSubscriptions(), basicMappings(), nil, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.DiscrepancyReport, 1)
	disc := report.DiscrepancyReport[0]
	assert.Equal(t, 10, disc.ClientID)
	assert.Equal(t, "cfq7ttc0lh18:p1y", disc.ManufacturerStockCode)
	assert.Equal(t, 8, disc.ProductQty)
	assert.Equal(t, 4, disc.SubQty)
	assert.Equal(t, -4, disc.Difference)
	assert.Equal(t, domain.StateOvercharging, disc.State)

	assert.Empty(t, report.UnmatchedSubscriptionsReport)
	assert.Empty(t, report.ExceptionsApplied)

	require.Len(t, report.Clients, 1)
	require.Len(t, report.Clients[0].Matrix, 1)
	assert.Equal(t, "mapping.json", report.Clients[0].Matrix[0].MatchedVia)
}

func TestGenerateReport_ExceptionSuppressesDiscrepancy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exceptions := []domain.Exception{
		{
			ID:                      "01J0000000000000000000EXC1",
			ClientID:                10,
			ManufacturerStockCode:   "CFQ7TTC0LH18:P1Y",
			ExpectedBillingQty:      8,
			ExpectedSubscriptionQty: 4,
			Reason:                  "client pre-paid annual seats",
			CreatedAt:               "2026-08-01 09:00:00",
			CreatedBy:               "ops",
		},
	}

	f := newReportFixture(ctrl)
	f.expectSnapshots(basicLineItems(), basicSubscriptions(), basicMappings(), exceptions, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.DiscrepancyReport)
	require.Len(t, report.ExceptionsApplied, 1)
	applied := report.ExceptionsApplied[0]
	assert.Equal(t, 10, applied.ClientID)
	assert.Equal(t, "client pre-paid annual seats", applied.ExceptionReason)
	assert.Equal(t, "ops", applied.ExceptionCreatedBy)
	assert.Equal(t, -4, applied.Difference)

	require.Len(t, report.Clients[0].Matrix, 1)
	assert.True(t, report.Clients[0].Matrix[0].HasException)
}

func TestGenerateReport_ExceptionSuppressesEvenWhenQuantitiesAgree(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lineItems := basicLineItems()
	lineItems[0].Quantity = 4
	exceptions := []domain.Exception{
		{ClientID: 10, ManufacturerStockCode: "CFQ7TTC0LH18:P1Y", ExpectedBillingQty: 4, ExpectedSubscriptionQty: 4, Reason: "hold during migration"},
	}

	f := newReportFixture(ctrl)
	f.expectSnapshots(lineItems, basicSubscriptions(), basicMappings(), exceptions, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.DiscrepancyReport)
	require.Len(t, report.ExceptionsApplied, 1)
	assert.Equal(t, "hold during migration", report.ExceptionsApplied[0].ExceptionReason)
}

func TestGenerateReport_MatchingQuantitiesProduceNoRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lineItems := basicLineItems()
	lineItems[0].Quantity = 4

	f := newReportFixture(ctrl)
	f.expectSnapshots(lineItems, basicSubscriptions(), basicMappings(), nil, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.DiscrepancyReport)
	assert.Empty(t, report.UnmatchedSubscriptionsReport)
	assert.Empty(t, report.ExceptionsApplied)
}

func TestGenerateReport_UnmatchedSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := basicSubscriptions()
	subs["tenant-a"] = append(subs["tenant-a"], domain.Subscription{
		TenantID:              "tenant-a",
		SubscriptionReference: "SR-200",
		StockDescription:      "Visio Plan 2",
		ManufacturerStockCode: "CFQ7TTC0HD33:P1Y",
		Status:                domain.SubscriptionActive,
		ConfirmedQuantity:     2,
	})

	f := newReportFixture(ctrl)
	f.expectSnapshots(basicLineItems(), subs, basicMappings(), nil, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.UnmatchedSubscriptionsReport, 1)
	unmatched := report.UnmatchedSubscriptionsReport[0]
	assert.Equal(t, "SR-200", unmatched.SubscriptionReference)
	assert.Equal(t, "No mapping found in mapping.json", unmatched.Reason)
	assert.Equal(t, domain.StateUnmatched, unmatched.State)
	require.Len(t, report.Clients[0].UnmatchedSubscriptions, 1)
}

func TestGenerateReport_UnmatchedExceptionRemovesEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := basicSubscriptions()
	subs["tenant-a"] = append(subs["tenant-a"], domain.Subscription{
		TenantID:              "tenant-a",
		SubscriptionReference: "SR-200",
		SubscriptionID:        "sub-200",
		StockDescription:      "Visio Plan 2",
		ManufacturerStockCode: "CFQ7TTC0HD33:P1Y",
		Status:                domain.SubscriptionActive,
		ConfirmedQuantity:     2,
	})
	exceptions := []domain.Exception{
		{ClientID: 10, ManufacturerStockCode: "CFQ7TTC0HD33:P1Y", ExpectedSubscriptionQty: 2, ApplyTo: domain.ApplyToUnmatched, Reason: "internal use licence"},
	}

	f := newReportFixture(ctrl)
	f.expectSnapshots(basicLineItems(), subs, basicMappings(), exceptions, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.UnmatchedSubscriptionsReport)
	assert.Empty(t, report.Clients[0].UnmatchedSubscriptions)
	require.Len(t, report.ExceptionsApplied, 1)
	assert.Equal(t, "SR-200", report.ExceptionsApplied[0].SubscriptionReference)
	assert.Equal(t, "internal use licence", report.ExceptionsApplied[0].ExceptionReason)
}

func TestGenerateReport_StoreFailuresDegradeToEmptySnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReportFixture(ctrl)
	f.billing.EXPECT().GetLineItems(gomock.Any()).Return(basicLineItems(), nil)
	f.billing.EXPECT().GetProblemClients(gomock.Any()).Return(nil, nil)
	f.subscriptions.EXPECT().GetSubscriptionsByTenant(gomock.Any()).Return(basicSubscriptions(), nil)
	f.mappings.EXPECT().Load(gomock.Any()).Return(nil, errors.New("mapping.json: permission denied"))
	f.exceptions.EXPECT().Load(gomock.Any()).Return(nil, errors.New("exceptions.json: corrupt"))

	sink := NewTraceCollector()
	report, err := f.uc.GenerateReport(context.Background(), sink)
	require.NoError(t, err)

	// With no mappings every subscription is unmatched; with no exceptions
	// nothing is suppressed.
	assert.Empty(t, report.DiscrepancyReport)
	require.Len(t, report.UnmatchedSubscriptionsReport, 1)
	assert.Empty(t, report.ExceptionsApplied)

	events := make([]string, 0, len(sink.Records()))
	for _, rec := range sink.Records() {
		events = append(events, rec.Event)
	}
	assert.Contains(t, events, "mapping_store_fallback")
	assert.Contains(t, events, "exception_store_fallback")
}

func TestGenerateReport_FeedFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReportFixture(ctrl)
	f.billing.EXPECT().GetLineItems(gomock.Any()).Return(nil, errors.New("billing export unavailable"))

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "billing line items")
}

func TestGenerateReport_SubscriptionFeedFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReportFixture(ctrl)
	f.billing.EXPECT().GetLineItems(gomock.Any()).Return(basicLineItems(), nil)
	f.subscriptions.EXPECT().GetSubscriptionsByTenant(gomock.Any()).Return(nil, errors.New("distributor API timeout"))

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "distributor subscriptions")
}

func TestGenerateReport_RepeatedRunsAreIdentical(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lineItems := []domain.BillingLineItem{
		{ClientID: 10, ProductID: 500, ProductName: "Business Basic", Quantity: 8, CompanyName: "Acme", TenantIDs: []string{"tenant-a"}},
		{ClientID: 10, ProductID: 501, ProductName: "Business Standard", Quantity: 3, CompanyName: "Acme", TenantIDs: []string{"tenant-a"}},
		{ClientID: 20, ProductID: 500, ProductName: "Business Basic", Quantity: 5, CompanyName: "Beta", TenantIDs: []string{"tenant-b"}},
	}
	subs := map[string][]domain.Subscription{
		"tenant-a": {
			{TenantID: "tenant-a", SubscriptionReference: "SR-1", ManufacturerStockCode: "msc-basic", Status: domain.SubscriptionActive, ConfirmedQuantity: 4},
			{TenantID: "tenant-a", SubscriptionReference: "SR-2", ManufacturerStockCode: "msc-std", Status: domain.SubscriptionActive, ConfirmedQuantity: 3},
			{TenantID: "tenant-a", SubscriptionReference: "SR-3", ManufacturerStockCode: "msc-unmapped", Status: domain.SubscriptionActive, ConfirmedQuantity: 1},
		},
		"tenant-b": {
			{TenantID: "tenant-b", SubscriptionReference: "SR-4", ManufacturerStockCode: "msc-basic", Status: domain.SubscriptionActive, ConfirmedQuantity: 5},
		},
	}
	mappings := []domain.ProductMapping{
		{ProductID: 500, ProductName: "Business Basic", Entries: []domain.MappingEntry{{ManufacturerStockCode: "msc-basic"}}},
		{ProductID: 501, ProductName: "Business Standard", Entries: []domain.MappingEntry{{ManufacturerStockCode: "msc-std"}}},
	}
	exceptions := []domain.Exception{
		{ClientID: 10, ManufacturerStockCode: "msc-basic", ExpectedBillingQty: 8, ExpectedSubscriptionQty: 4, Reason: "approved"},
	}

	f := newReportFixture(ctrl)
	f.expectSnapshots(lineItems, subs, mappings, exceptions, 2)

	first, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)
	second, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestGenerateReport_EachIssueCountedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exceptions := []domain.Exception{
		{ClientID: 10, ManufacturerStockCode: "CFQ7TTC0LH18:P1Y", ExpectedBillingQty: 8, ExpectedSubscriptionQty: 4, Reason: "first"},
		{ClientID: 0, ManufacturerStockCode: "CFQ7TTC0LH18:P1Y", ExpectedBillingQty: 8, ExpectedSubscriptionQty: 4, Reason: "second"},
	}

	f := newReportFixture(ctrl)
	f.expectSnapshots(basicLineItems(), basicSubscriptions(), basicMappings(), exceptions, 1)

	report, err := f.uc.GenerateReport(context.Background(), nil)
	require.NoError(t, err)

	// Two covering exceptions still suppress the entry exactly once, and the
	// suppressed entry never also appears as a discrepancy.
	assert.Empty(t, report.DiscrepancyReport)
	require.Len(t, report.ExceptionsApplied, 1)
	assert.Equal(t, "first", report.ExceptionsApplied[0].ExceptionReason)
}

func TestGenerateReport_ProblemClientFiltering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	problems := []domain.ProblemClient{
		{ClientID: 30, CompanyName: "Gamma", HasTenantID: false, HasExpiry: true},
		{ClientID: 31, CompanyName: "Delta", HasTenantID: false, HasExpiry: false},
	}
	exceptions := []domain.Exception{
		{ClientID: 30, Type: domain.ExceptionMissingTenantID, Reason: "not a CSP client"},
	}

	f := newReportFixture(ctrl)
	f.billing.EXPECT().GetLineItems(gomock.Any()).Return(nil, nil)
	f.billing.EXPECT().GetProblemClients(gomock.Any()).Return(problems, nil)
	f.subscriptions.EXPECT().GetSubscriptionsByTenant(gomock.Any()).Return(nil, nil)
	f.mappings.EXPECT().Load(gomock.Any()).Return(nil, nil)
	f.exceptions.EXPECT().Load(gomock.Any()).Return(exceptions, nil)

	sink := NewTraceCollector()
	report, err := f.uc.GenerateReport(context.Background(), sink)
	require.NoError(t, err)

	require.Len(t, report.ProblemClients, 1)
	assert.Equal(t, 31, report.ProblemClients[0].ClientID)

	excused := false
	for _, rec := range sink.Records() {
		if rec.Event == "problem_client_excused" {
			excused = true
		}
	}
	assert.True(t, excused)
}
