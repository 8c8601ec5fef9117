package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yunseong/proptune/internal/ep"
)

// Run is one recorded optimization run.
type Run struct {
	ID          string              `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	Policy      string              `json:"policy"`
	ContentHash string              `json:"content_hash"`
	Records     []ep.Recommendation `json:"records"`
}

// RecordRun persists a run and its recommendation records in one
// transaction. The run id is a UUIDv7, so ids sort by creation time.
func (s *Store) RecordRun(ctx context.Context, policy string, recs []ep.Recommendation) (*Run, error) {
	hash, err := ep.HashRecommendations(recs)
	if err != nil {
		return nil, fmt.Errorf("hashing records: %w", err)
	}

	run := &Run{
		ID:          uuid.Must(uuid.NewV7()).String(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Policy:      policy,
		ContentHash: hash,
		Records:     recs,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, policy, content_hash, record_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339), run.Policy, run.ContentHash, len(recs))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for i, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_records (run_id, position, record) VALUES (?, ?, ?)`,
			run.ID, i, string(data))
		if err != nil {
			return nil, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their
// records. A limit of 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, created_at, policy, content_hash FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.Policy, &run.ContentHash); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its records in synthesis order.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, policy, content_hash FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &createdAt, &run.Policy, &run.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM run_records WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec ep.Recommendation
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		run.Records = append(run.Records, rec)
	}
	return &run, rows.Err()
}
