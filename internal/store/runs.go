package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"codeatlas/internal/analyzer"
	atlaserr "codeatlas/internal/errors"
)

// Run describes one persisted analysis run
type Run struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
}

// SaveRun persists the AnalysisSet as a new run and returns its ID.
// Record positions preserve the set's insertion order.
func (db *DB) SaveRun(ctx context.Context, root string, set *analyzer.AnalysisSet) (string, error) {
	runID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	err := db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, root, created_at, file_count) VALUES (?, ?, ?, ?)`,
			runID, root, createdAt, set.Len(),
		); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO facts (run_id, position, path, classes, functions, imports, call_counts, node_kind_counts)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		position := 0
		var insertErr error
		set.Each(func(rec *analyzer.FactRecord) {
			if insertErr != nil {
				return
			}
			classes, functions, imports, calls, kinds, err := encodeRecord(rec)
			if err != nil {
				insertErr = err
				return
			}
			_, insertErr = stmt.ExecContext(ctx, runID, position, rec.Path,
				classes, functions, imports, calls, kinds)
			position++
		})
		return insertErr
	})
	if err != nil {
		return "", atlaserr.New(atlaserr.StoreFailed, "failed to persist analysis run", err)
	}

	db.logger.Info("Persisted analysis run", map[string]interface{}{
		"runId": runID,
		"root":  root,
		"files": set.Len(),
	})

	return runID, nil
}

// LoadRun reconstructs the AnalysisSet of a run, in its original order
func (db *DB) LoadRun(ctx context.Context, runID string) (*analyzer.AnalysisSet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT path, classes, functions, imports, call_counts, node_kind_counts
		 FROM facts WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, atlaserr.New(atlaserr.StoreFailed, "failed to load analysis run", err)
	}
	defer rows.Close()

	set := analyzer.NewAnalysisSet()
	for rows.Next() {
		var path, classes, functions, imports, calls, kinds string
		if err := rows.Scan(&path, &classes, &functions, &imports, &calls, &kinds); err != nil {
			return nil, atlaserr.New(atlaserr.StoreFailed, "failed to scan fact row", err)
		}
		rec, err := decodeRecord(path, classes, functions, imports, calls, kinds)
		if err != nil {
			return nil, err
		}
		set.Insert(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, atlaserr.New(atlaserr.StoreFailed, "failed to read fact rows", err)
	}

	return set, nil
}

// LatestRun returns the most recent run for a root, or ok=false when none
// has been saved.
func (db *DB) LatestRun(ctx context.Context, root string) (*Run, bool, error) {
	var run Run
	var createdAt string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, root, created_at, file_count FROM runs
		 WHERE root = ? ORDER BY created_at DESC LIMIT 1`, root,
	).Scan(&run.ID, &run.Root, &createdAt, &run.FileCount)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, atlaserr.New(atlaserr.StoreFailed, "failed to look up latest run", err)
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &run, true, nil
}

func encodeRecord(rec *analyzer.FactRecord) (classes, functions, imports, calls, kinds string, err error) {
	parts := []struct {
		out *string
		val interface{}
	}{
		{&classes, rec.Classes},
		{&functions, rec.FunctionNames},
		{&imports, rec.Imports},
		{&calls, rec.CallCounts},
		{&kinds, rec.NodeKindCounts},
	}
	for _, p := range parts {
		data, merr := json.Marshal(p.val)
		if merr != nil {
			err = merr
			return
		}
		*p.out = string(data)
	}
	return
}

func decodeRecord(path, classes, functions, imports, calls, kinds string) (*analyzer.FactRecord, error) {
	rec := analyzer.NewFactRecord(path)

	parts := []struct {
		data string
		val  interface{}
	}{
		{classes, &rec.Classes},
		{functions, &rec.FunctionNames},
		{imports, &rec.Imports},
		{calls, &rec.CallCounts},
		{kinds, &rec.NodeKindCounts},
	}
	for _, p := range parts {
		if err := json.Unmarshal([]byte(p.data), p.val); err != nil {
			return nil, atlaserr.New(atlaserr.StoreFailed, "failed to decode fact record", err).WithPath(path)
		}
	}
	return rec, nil
}
