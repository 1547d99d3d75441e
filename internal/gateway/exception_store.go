package gateway

import (
	"context"
	"encoding/json"
	"os"

	"o365-reconciler/internal/domain"
	ierr "o365-reconciler/internal/errors"
	"o365-reconciler/internal/logger"
)

// JSONExceptionStore persists exception records as a flat JSON list in
// insertion order, which the resolver's first-match-wins contract depends
// on.
type JSONExceptionStore struct {
	path   string
	logger *logger.Logger
	now    func() int64
}

// NewJSONExceptionStore creates an exception store backed by the given file.
func NewJSONExceptionStore(path string, log *logger.Logger) *JSONExceptionStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &JSONExceptionStore{path: path, logger: log, now: unixNow}
}

// Load reads the exception list. A missing file is an empty store. Records
// that are not objects, fail to decode, or carry no stock code while not
// being attribute exceptions are skipped, never fatal; only a file that is
// not a JSON list at all is an error.
func (s *JSONExceptionStore) Load(ctx context.Context) ([]domain.Exception, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debugw("exception file not present, treating as empty", "path", s.path)
			return nil, nil
		}
		return nil, ierr.WithError(err).
			WithMessagef("failed to read exception file %s", s.path).
			Mark(ierr.ErrStore)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, ierr.WithError(err).
			WithMessagef("malformed exception file %s", s.path).
			Mark(ierr.ErrStore)
	}

	var exceptions []domain.Exception
	skipped := 0
	for _, record := range raw {
		var exc domain.Exception
		if err := json.Unmarshal(record, &exc); err != nil {
			skipped++
			continue
		}
		if exc.NormalizedStockCode() == "" && !isAttributeException(exc) {
			skipped++
			continue
		}
		exceptions = append(exceptions, exc)
	}
	if skipped > 0 {
		s.logger.Warnw("skipped malformed exception records", "path", s.path, "skipped", skipped)
	}
	return exceptions, nil
}

// Save writes the exception list, preserving a point-in-time backup of the
// prior file.
func (s *JSONExceptionStore) Save(ctx context.Context, exceptions []domain.Exception) error {
	if err := backupFile(s.path, s.now()); err != nil {
		return err
	}
	if exceptions == nil {
		exceptions = []domain.Exception{}
	}
	content, err := json.MarshalIndent(exceptions, "", "  ")
	if err != nil {
		return ierr.WithError(err).WithMessage("failed to encode exceptions").Mark(ierr.ErrStore)
	}
	if err := os.WriteFile(s.path, content, 0o644); err != nil {
		return ierr.WithError(err).
			WithMessagef("failed to write exception file %s", s.path).
			Mark(ierr.ErrStore)
	}
	return nil
}

func isAttributeException(exc domain.Exception) bool {
	return exc.Type == domain.ExceptionMissingTenantID || exc.Type == domain.ExceptionMissingExpiry
}
