// Package jsonfile stores the aggregate document as a single JSON file on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
)

type store struct {
	path string
	log  zerolog.Logger
}

// New returns a DocumentStore backed by the file at path. The file does not need to exist yet;
// a missing file reads as an empty document and is created on the first Save.
func New(path string, logger zerolog.Logger) (repository.DocumentStore, error) {
	if path == "" {
		return nil, errors.New("jsonfile: path is required")
	}
	l := logger.With().Str("module", "repository").Str("component", "jsonfile").Str("path", path).Logger()
	return &store{path: path, log: l}, nil
}

// Ping checks that the directory holding the document is reachable.
func (s *store) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", repository.ErrStoreUnavailable, dir)
	}
	return nil
}

func (s *store) Load(ctx context.Context) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Msg("document file missing, starting empty")
		return model.Document{Orgs: []model.Org{}}, nil
	}
	if err != nil {
		return model.Document{}, errors.Join(repository.ErrStoreUnavailable, err)
	}
	var doc model.Document
	if len(data) == 0 {
		return model.Document{Orgs: []model.Org{}}, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Error().Err(err).Msg("document file is not valid json")
		return model.Document{}, errors.Join(repository.ErrCorruptDocument, err)
	}
	if doc.Orgs == nil {
		doc.Orgs = []model.Org{}
	}
	return doc, nil
}

// Save writes to a temp file in the same directory and renames it over the target,
// so readers see either the old or the new document.
func (s *store) Save(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Join(repository.ErrStoreUnavailable, err)
	}
	s.log.Debug().Int("bytes", len(data)).Int("orgs", len(doc.Orgs)).Msg("document saved")
	return nil
}

var _ repository.DocumentStore = (*store)(nil)
