package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"o365-reconciler/internal/domain"
	ierr "o365-reconciler/internal/errors"
	"o365-reconciler/internal/logger"
)

// ExceptionAdminUseCase implements the operator-facing exception mutation
// commands. Stored records are immutable: commands only append or remove.
type ExceptionAdminUseCase struct {
	store     ExceptionStore
	validator *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

func NewExceptionAdminUseCase(store ExceptionStore, log *logger.Logger) *ExceptionAdminUseCase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ExceptionAdminUseCase{
		store:     store,
		validator: validator.New(),
		logger:    log,
		now:       time.Now,
	}
}

// AddExceptionCommand is the request to record one approved deviation.
type AddExceptionCommand struct {
	ClientID                int                  `validate:"min=0"`
	ProductID               int                  `validate:"min=0"`
	ManufacturerStockCode   string               `validate:"required"`
	ExpectedBillingQty      int                  `validate:"min=0"`
	ExpectedSubscriptionQty int                  `validate:"min=0"`
	SubscriptionID          string               ``
	Type                    domain.ExceptionType `validate:"omitempty,oneof=quantity_mismatch missing_tenant_id missing_expiry"`
	ApplyTo                 string               `validate:"omitempty,oneof=client unmatched"`
	Reason                  string               `validate:"required"`
	CreatedBy               string               ``
}

// AddException validates and stores a new exception. Adding a record that is
// structurally equivalent to a stored one is a no-op reported as "already
// exists", so repeated operator submissions cannot duplicate a rule.
func (uc *ExceptionAdminUseCase) AddException(ctx context.Context, cmd AddExceptionCommand) (domain.Exception, error) {
	if err := uc.validator.Struct(cmd); err != nil {
		return domain.Exception{}, ierr.WithError(err).
			WithMessage("invalid add-exception command").
			Mark(ierr.ErrValidation)
	}
	if cmd.Type == domain.ExceptionMissingTenantID || cmd.Type == domain.ExceptionMissingExpiry {
		if cmd.ClientID == 0 {
			return domain.Exception{}, ierr.NewError("attribute exceptions require a client").
				Mark(ierr.ErrValidation)
		}
	}

	exceptions, err := uc.store.Load(ctx)
	if err != nil {
		return domain.Exception{}, fmt.Errorf("could not load exceptions: %w", err)
	}

	applyTo := cmd.ApplyTo
	if applyTo == "" {
		applyTo = domain.ApplyToClient
	}

	exc := domain.Exception{
		ID:                      newExceptionID(uc.now()),
		ClientID:                cmd.ClientID,
		ProductID:               cmd.ProductID,
		ManufacturerStockCode:   strings.TrimSpace(cmd.ManufacturerStockCode),
		ExpectedBillingQty:      cmd.ExpectedBillingQty,
		ExpectedSubscriptionQty: cmd.ExpectedSubscriptionQty,
		SubscriptionID:          strings.TrimSpace(cmd.SubscriptionID),
		Type:                    cmd.Type,
		ApplyTo:                 applyTo,
		Reason:                  strings.TrimSpace(cmd.Reason),
		CreatedAt:               uc.now().Format(time.DateTime),
		CreatedBy:               createdBy(cmd.CreatedBy),
	}

	for _, stored := range exceptions {
		if equivalentExceptions(stored, exc) {
			return domain.Exception{}, ierr.NewError("exception already exists").
				WithHint("An equivalent exception is already stored").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	exceptions = append(exceptions, exc)
	if err := uc.store.Save(ctx, exceptions); err != nil {
		return domain.Exception{}, fmt.Errorf("could not save exceptions: %w", err)
	}

	uc.logger.Infow("exception added",
		"id", exc.ID, "client_id", exc.ClientID, "msc", exc.NormalizedStockCode(), "apply_to", exc.ApplyTo)
	return exc, nil
}

// RemoveException deletes stored exceptions. A subscription ID narrows the
// removal to that subscription's records; otherwise a non-nil client ID
// narrows to that client; otherwise every record carrying the stock code is
// removed. Returns how many records were removed.
func (uc *ExceptionAdminUseCase) RemoveException(ctx context.Context, clientID *int, msc, subscriptionID string) (int, error) {
	msc = domain.NormalizeStockCode(msc)
	subscriptionID = strings.TrimSpace(subscriptionID)

	exceptions, err := uc.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load exceptions: %w", err)
	}

	kept := exceptions[:0:0]
	for _, exc := range exceptions {
		if removeMatches(exc, clientID, msc, subscriptionID) {
			continue
		}
		kept = append(kept, exc)
	}

	removed := len(exceptions) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := uc.store.Save(ctx, kept); err != nil {
		return 0, fmt.Errorf("could not save exceptions: %w", err)
	}

	uc.logger.Infow("exceptions removed", "count", removed, "msc", msc, "subscription_id", subscriptionID)
	return removed, nil
}

func removeMatches(exc domain.Exception, clientID *int, msc, subscriptionID string) bool {
	if subscriptionID != "" {
		return exc.SubscriptionID == subscriptionID && exc.NormalizedStockCode() == msc
	}
	if clientID != nil {
		return exc.ClientID == *clientID && exc.NormalizedStockCode() == msc
	}
	return exc.NormalizedStockCode() == msc
}

// equivalentExceptions reports whether two records cover the same deviation,
// mirroring the resolver's matching rules: same stock code, and either the
// same subscription (when both target one), or an overlapping client scope.
func equivalentExceptions(a, b domain.Exception) bool {
	if a.NormalizedStockCode() != b.NormalizedStockCode() {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	if a.ApplyTo == domain.ApplyToUnmatched || b.ApplyTo == domain.ApplyToUnmatched {
		if a.SubscriptionID != "" && b.SubscriptionID != "" {
			return a.SubscriptionID == b.SubscriptionID
		}
		return a.ClientID == b.ClientID || a.IsGlobal() || b.IsGlobal()
	}
	return a.ClientID == b.ClientID
}

var ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func newExceptionID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

func createdBy(by string) string {
	if strings.TrimSpace(by) == "" {
		return "system"
	}
	return strings.TrimSpace(by)
}
