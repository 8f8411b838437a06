// Package storage persists trained classifiers as SQLite artifact files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySnapshot = errors.New("snapshot has no vocabulary")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot checks a snapshot is internally consistent before it is
// written.
func validateSnapshot(s *classification.Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if len(s.Terms) == 0 {
		return ErrEmptySnapshot
	}
	if len(s.Terms) != len(s.IDF) {
		return fmt.Errorf("%w: %d terms with %d idf weights", common.ErrCorruptArtifact, len(s.Terms), len(s.IDF))
	}
	if len(s.Classes) < 2 {
		return fmt.Errorf("%w: %d classes", common.ErrCorruptArtifact, len(s.Classes))
	}
	for _, c := range s.Classes {
		if len(c.FeatureLogProb) != len(s.Terms) {
			return fmt.Errorf("%w: class %s has %d feature weights, want %d",
				common.ErrCorruptArtifact, c.Label, len(c.FeatureLogProb), len(s.Terms))
		}
	}
	return nil
}
