package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"o365-reconciler/internal/domain"
	ierr "o365-reconciler/internal/errors"
	"o365-reconciler/internal/logger"
)

// JSONMappingStore persists product mappings as a JSON file shared with the
// mapping editor. The engine only reads it; Save exists for the editor side
// and always backs up the prior file first.
type JSONMappingStore struct {
	path   string
	logger *logger.Logger
	now    func() int64
}

// NewJSONMappingStore creates a mapping store backed by the given file.
func NewJSONMappingStore(path string, log *logger.Logger) *JSONMappingStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &JSONMappingStore{path: path, logger: log, now: unixNow}
}

// Load reads the mapping file. A missing file is an empty store; an
// unreadable or structurally wrong file is an error the caller may degrade
// on.
func (s *JSONMappingStore) Load(ctx context.Context) ([]domain.ProductMapping, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debugw("mapping file not present, treating as empty", "path", s.path)
			return nil, nil
		}
		return nil, ierr.WithError(err).
			WithMessagef("failed to read mapping file %s", s.path).
			Mark(ierr.ErrStore)
	}

	var file domain.MappingFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, ierr.WithError(err).
			WithMessagef("malformed mapping file %s", s.path).
			Mark(ierr.ErrStore)
	}
	return file.D, nil
}

// Save writes the mappings, preserving a point-in-time backup of the prior
// file.
func (s *JSONMappingStore) Save(ctx context.Context, mappings []domain.ProductMapping) error {
	if err := backupFile(s.path, s.now()); err != nil {
		return err
	}
	content, err := json.MarshalIndent(domain.MappingFile{D: mappings}, "", "  ")
	if err != nil {
		return ierr.WithError(err).WithMessage("failed to encode mappings").Mark(ierr.ErrStore)
	}
	if err := os.WriteFile(s.path, content, 0o644); err != nil {
		return ierr.WithError(err).
			WithMessagef("failed to write mapping file %s", s.path).
			Mark(ierr.ErrStore)
	}
	return nil
}

func unixNow() int64 {
	return time.Now().Unix()
}

// backupFile copies the current file aside before an overwrite. A missing
// file needs no backup.
func backupFile(path string, ts int64) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ierr.WithError(err).
			WithMessagef("failed to back up %s", path).
			Mark(ierr.ErrStore)
	}
	backupPath := fmt.Sprintf("%s.bak.%d", path, ts)
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return ierr.WithError(err).
			WithMessagef("failed to write backup %s", backupPath).
			Mark(ierr.ErrStore)
	}
	return nil
}
