package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ArtifactStore reads and writes classifier artifacts. Each artifact is a
// self-contained SQLite database file.
type ArtifactStore struct{}

// NewArtifactStore creates a new artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{}
}

// ArtifactInfo describes a stored artifact without loading its weights.
type ArtifactInfo struct {
	TrainedAt      time.Time
	Path           string
	Options        classification.Options
	Documents      int
	VocabularySize int
	SchemaVersion  int
}

// sqliteDSN builds a file: URI for path. The path is percent-escaped so '?'
// and '#' in directory names stay part of the filename.
func sqliteDSN(path string, readOnly bool) string {
	mode := "rwc"
	params := "&_busy_timeout=5000&_foreign_keys=on"
	if readOnly {
		mode = "ro"
		params = "&_busy_timeout=5000"
	}
	escaped := (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
	return "file:" + escaped + "?mode=" + mode + params
}

// openDB opens the SQLite file at path. Read-only handles never create the
// file.
func openDB(path string, readOnly bool) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path, readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Save writes clf to path. The artifact is built in a temporary file in the
// same directory and renamed into place, so an existing artifact at path is
// either fully replaced or left untouched.
func (s *ArtifactStore) Save(ctx context.Context, path string, clf *classification.Classifier) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(path, "path"); err != nil {
		return err
	}
	if clf == nil {
		return fmt.Errorf("%w: classifier", ErrNilParameter)
	}

	snap, err := clf.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot classifier: %w", err)
	}
	if err := validateSnapshot(&snap); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		removeArtifactFiles(tmpPath)
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	defer func() {
		if err != nil {
			removeArtifactFiles(tmpPath)
		}
	}()

	db, err := openDB(tmpPath, false)
	if err != nil {
		return err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	if err := writeSnapshot(ctx, db, &snap); err != nil {
		_ = db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	slog.Info("Saved model artifact",
		"path", path,
		"terms", len(snap.Terms),
		"documents", snap.Documents)
	return nil
}

// Load restores the classifier stored at path. A missing file yields
// common.ErrModelUnavailable; an unreadable one common.ErrCorruptArtifact.
func (s *ArtifactStore) Load(ctx context.Context, path string) (*classification.Classifier, error) {
	db, err := openArtifact(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Debug("Failed to close artifact", "path", path, "error", cerr)
		}
	}()

	snap, err := readSnapshot(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrCorruptArtifact, path, err)
	}

	clf, err := classification.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to restore classifier from %s: %w", path, err)
	}

	slog.Debug("Loaded model artifact", "path", path, "terms", clf.VocabularySize())
	return clf, nil
}

// LoadPredictor implements service.ModelLoader.
func (s *ArtifactStore) LoadPredictor(ctx context.Context, path string) (service.Predictor, error) {
	clf, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return clf, nil
}

// Info reads the metadata of the artifact at path.
func (s *ArtifactStore) Info(ctx context.Context, path string) (*ArtifactInfo, error) {
	db, err := openArtifact(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	meta, err := readMetadata(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrCorruptArtifact, path, err)
	}

	info := &ArtifactInfo{
		Path:          path,
		TrainedAt:     meta.TrainedAt,
		Options:       meta.Options,
		Documents:     meta.Documents,
		SchemaVersion: ExpectedSchemaVersion,
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vocabulary`).Scan(&info.VocabularySize); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrCorruptArtifact, path, err)
	}
	return info, nil
}

// openArtifact opens an existing artifact read-only and checks its schema.
func openArtifact(ctx context.Context, path string) (*sql.DB, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no artifact at %s", common.ErrModelUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrModelUnavailable, err)
	}

	db, err := openDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptArtifact, err)
	}

	version, err := schemaVersion(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %w", common.ErrCorruptArtifact, path, err)
	}
	if version != ExpectedSchemaVersion {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s has schema version %d, expected %d",
			common.ErrCorruptArtifact, path, version, ExpectedSchemaVersion)
	}
	return db, nil
}

// removeArtifactFiles deletes a partially written artifact and its journal.
func removeArtifactFiles(path string) {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to remove temporary artifact", "path", p, "error", err)
		}
	}
}
