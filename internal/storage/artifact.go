package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
)

// Metadata keys.
const (
	metaTrainedAt   = "trained_at"
	metaDocuments   = "documents"
	metaMaxFeatures = "max_features"
	metaNGramMax    = "ngram_max"
	metaAlpha       = "alpha"
	metaStopWords   = "stop_words"
)

type artifactMetadata struct {
	TrainedAt time.Time
	Options   classification.Options
	Documents int
}

func writeSnapshot(ctx context.Context, db *sql.DB, snap *classification.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		metaTrainedAt:   snap.TrainedAt.UTC().Format(time.RFC3339Nano),
		metaDocuments:   strconv.Itoa(snap.Documents),
		metaMaxFeatures: strconv.Itoa(snap.Options.MaxFeatures),
		metaNGramMax:    strconv.Itoa(snap.Options.NGramMax),
		metaAlpha:       strconv.FormatFloat(snap.Options.Alpha, 'g', -1, 64),
		metaStopWords:   strconv.FormatBool(snap.Options.StopWords),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to write metadata %s: %w", key, err)
		}
	}

	vocabStmt, err := tx.PrepareContext(ctx, `INSERT INTO vocabulary (idx, term, idf) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare vocabulary insert: %w", err)
	}
	defer func() { _ = vocabStmt.Close() }()
	for i, term := range snap.Terms {
		if _, err := vocabStmt.ExecContext(ctx, i, term, snap.IDF[i]); err != nil {
			return fmt.Errorf("failed to write term %q: %w", term, err)
		}
	}

	weightStmt, err := tx.PrepareContext(ctx, `INSERT INTO feature_log_probs (class_id, term_idx, log_prob) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer func() { _ = weightStmt.Close() }()

	for id, class := range snap.Classes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (id, label, log_prior, doc_count) VALUES (?, ?, ?, ?)`,
			id, string(class.Label), class.LogPrior, class.Count); err != nil {
			return fmt.Errorf("failed to write class %s: %w", class.Label, err)
		}
		for idx, w := range class.FeatureLogProb {
			if _, err := weightStmt.ExecContext(ctx, id, idx, w); err != nil {
				return fmt.Errorf("failed to write weights for class %s: %w", class.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artifact: %w", err)
	}
	return nil
}

func readMetadata(ctx context.Context, db *sql.DB) (*artifactMetadata, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	raw := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		raw[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	for _, key := range []string{metaTrainedAt, metaDocuments, metaMaxFeatures, metaNGramMax, metaAlpha, metaStopWords} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("metadata %s: %w", key, common.ErrNotFound)
		}
	}

	meta := &artifactMetadata{}
	if meta.TrainedAt, err = time.Parse(time.RFC3339Nano, raw[metaTrainedAt]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaTrainedAt, err)
	}
	if meta.Documents, err = strconv.Atoi(raw[metaDocuments]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaDocuments, err)
	}
	if meta.Options.MaxFeatures, err = strconv.Atoi(raw[metaMaxFeatures]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaMaxFeatures, err)
	}
	if meta.Options.NGramMax, err = strconv.Atoi(raw[metaNGramMax]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaNGramMax, err)
	}
	if meta.Options.Alpha, err = strconv.ParseFloat(raw[metaAlpha], 64); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaAlpha, err)
	}
	if meta.Options.StopWords, err = strconv.ParseBool(raw[metaStopWords]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", metaStopWords, err)
	}
	return meta, nil
}

func readSnapshot(ctx context.Context, db *sql.DB) (classification.Snapshot, error) {
	var snap classification.Snapshot

	meta, err := readMetadata(ctx, db)
	if err != nil {
		return snap, err
	}
	snap.TrainedAt = meta.TrainedAt
	snap.Options = meta.Options
	snap.Documents = meta.Documents

	if err := readVocabulary(ctx, db, &snap); err != nil {
		return snap, err
	}

	classIndex, err := readClasses(ctx, db, &snap)
	if err != nil {
		return snap, err
	}

	if err := readWeights(ctx, db, &snap, classIndex); err != nil {
		return snap, err
	}
	return snap, nil
}

func readVocabulary(ctx context.Context, db *sql.DB, snap *classification.Snapshot) error {
	rows, err := db.QueryContext(ctx, `SELECT idx, term, idf FROM vocabulary ORDER BY idx`)
	if err != nil {
		return fmt.Errorf("failed to read vocabulary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			idx  int
			term string
			idf  float64
		)
		if err := rows.Scan(&idx, &term, &idf); err != nil {
			return fmt.Errorf("failed to scan vocabulary: %w", err)
		}
		if idx != len(snap.Terms) {
			return fmt.Errorf("vocabulary index %d out of sequence", idx)
		}
		snap.Terms = append(snap.Terms, term)
		snap.IDF = append(snap.IDF, idf)
	}
	return rows.Err()
}

func readClasses(ctx context.Context, db *sql.DB, snap *classification.Snapshot) (map[int]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, label, log_prior, doc_count FROM classes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read classes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	classIndex := make(map[int]int)
	for rows.Next() {
		var (
			id    int
			label string
			class classification.ClassSnapshot
		)
		if err := rows.Scan(&id, &label, &class.LogPrior, &class.Count); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		if class.Label, err = model.ParseLabel(label); err != nil {
			return nil, err
		}
		class.FeatureLogProb = make([]float64, len(snap.Terms))
		classIndex[id] = len(snap.Classes)
		snap.Classes = append(snap.Classes, class)
	}
	return classIndex, rows.Err()
}

func readWeights(ctx context.Context, db *sql.DB, snap *classification.Snapshot, classIndex map[int]int) error {
	rows, err := db.QueryContext(ctx, `SELECT class_id, term_idx, log_prob FROM feature_log_probs ORDER BY class_id, term_idx`)
	if err != nil {
		return fmt.Errorf("failed to read feature weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	filled := make([]int, len(snap.Classes))
	for rows.Next() {
		var (
			classID, termIdx int
			logProb          float64
		)
		if err := rows.Scan(&classID, &termIdx, &logProb); err != nil {
			return fmt.Errorf("failed to scan feature weight: %w", err)
		}
		ci, ok := classIndex[classID]
		if !ok {
			return fmt.Errorf("feature weight for unknown class %d", classID)
		}
		if termIdx < 0 || termIdx >= len(snap.Terms) {
			return fmt.Errorf("feature weight for unknown term %d", termIdx)
		}
		snap.Classes[ci].FeatureLogProb[termIdx] = logProb
		filled[ci]++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read feature weights: %w", err)
	}

	for ci, n := range filled {
		if n != len(snap.Terms) {
			return fmt.Errorf("class %s has %d of %d feature weights", snap.Classes[ci].Label, n, len(snap.Terms))
		}
	}
	return nil
}
