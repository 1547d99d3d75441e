package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"o365-reconciler/internal/domain"
	"o365-reconciler/internal/logger"
)

// subscriptionEnvelope is the distributor API response shape the snapshot is
// captured in.
type subscriptionEnvelope struct {
	Out []domain.Subscription `json:"Out"`
}

// JSONSubscriptionFeed reads a distributor subscription snapshot and indexes
// it by tenant ID, keeping only ACTIVE subscriptions.
type JSONSubscriptionFeed struct {
	path   string
	logger *logger.Logger
}

// NewJSONSubscriptionFeed creates a feed over the given snapshot file.
func NewJSONSubscriptionFeed(path string, log *logger.Logger) *JSONSubscriptionFeed {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &JSONSubscriptionFeed{path: path, logger: log}
}

// GetSubscriptionsByTenant reads, normalizes and groups the snapshot.
// Non-ACTIVE subscriptions and records without a tenant ID are dropped.
func (f *JSONSubscriptionFeed) GetSubscriptionsByTenant(ctx context.Context) (map[string][]domain.Subscription, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription snapshot %s: %w", f.path, err)
	}

	var envelope subscriptionEnvelope
	if err := json.Unmarshal(content, &envelope); err != nil {
		return nil, fmt.Errorf("malformed subscription snapshot %s: %w", f.path, err)
	}

	byTenant := make(map[string][]domain.Subscription)
	dropped := 0
	for _, raw := range envelope.Out {
		sub := domain.NewSubscription(raw)
		if !sub.IsActive() || sub.TenantID == "" {
			dropped++
			continue
		}
		byTenant[sub.TenantID] = append(byTenant[sub.TenantID], sub)
	}

	f.logger.Debugw("subscription snapshot loaded",
		"path", f.path, "tenants", len(byTenant), "dropped", dropped)
	return byTenant, nil
}
