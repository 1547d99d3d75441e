package usecase

import (
	"context"

	"o365-reconciler/internal/domain"
)

// The usecase layer depends on these interfaces, not on concrete
// implementations. Feeds deliver already-resolved snapshots; the engine
// itself performs no network or file I/O during a run.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go

// BillingFeed supplies the billing system's view: active line items
// pre-joined with client custom attributes, and clients whose attributes are
// incomplete.
type BillingFeed interface {
	GetLineItems(ctx context.Context) ([]domain.BillingLineItem, error)
	GetProblemClients(ctx context.Context) ([]domain.ProblemClient, error)
}

// SubscriptionFeed supplies the distributor's ACTIVE subscriptions, indexed
// by tenant ID.
type SubscriptionFeed interface {
	GetSubscriptionsByTenant(ctx context.Context) (map[string][]domain.Subscription, error)
}

// MappingStore persists the curated product-to-stock-code associations.
// Read-only during a report run; written by the mapping editor.
type MappingStore interface {
	Load(ctx context.Context) ([]domain.ProductMapping, error)
	Save(ctx context.Context, mappings []domain.ProductMapping) error
}

// ExceptionStore persists operator-approved exceptions in insertion order.
type ExceptionStore interface {
	Load(ctx context.Context) ([]domain.Exception, error)
	Save(ctx context.Context, exceptions []domain.Exception) error
}
