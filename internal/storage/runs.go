package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/model"
)

// ScanRun records one engine invocation and its outputs.
type ScanRun struct {
	AsOf             time.Time
	CreatedAt        time.Time
	ID               string
	Mode             string
	Candidates       []RunCandidate
	Anomalies        []model.AnomalyFlag
	TransactionCount int
}

// RunCandidate is the stored, path-agnostic candidate shape. Probability is
// nil on the heuristic path.
type RunCandidate struct {
	LastDate       time.Time
	NextExpected   time.Time
	Probability    *float64
	MerchantKey    string
	Brand          string
	Category       string
	Cadence        string
	Count          int
	MeanAmount     float64
	CV             float64
	IsRecurring    bool
	IsSubscription bool
	MissedCycle    bool
}

// SaveScanRun persists a run with its candidates and anomaly flags.
// Assigns the run an ID when it has none; reusing an existing ID returns
// common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveScanRun(ctx context.Context, run *ScanRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	subs := 0
	for _, c := range run.Candidates {
		if c.IsSubscription {
			subs++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scan_runs (id, as_of, mode, transaction_count, subscription_count, anomaly_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.AsOf, run.Mode, run.TransactionCount, subs, len(run.Anomalies)); err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: scan run %s", common.ErrDuplicateEntry, run.ID)
		}
		return fmt.Errorf("failed to insert scan run: %w", err)
	}

	for rank, c := range run.Candidates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scan_candidates
				(run_id, rank, merchant_key, brand, category, cadence, count, mean_amount, cv,
				 probability, is_recurring, is_subscription, missed_cycle, last_date, next_expected)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, rank, c.MerchantKey, c.Brand, c.Category, c.Cadence, c.Count, c.MeanAmount, c.CV,
			c.Probability, c.IsRecurring, c.IsSubscription, c.MissedCycle,
			nullTime(c.LastDate), nullTime(c.NextExpected)); err != nil {
			return fmt.Errorf("failed to insert candidate %q: %w", c.MerchantKey, err)
		}
	}

	for _, a := range run.Anomalies {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scan_anomalies (run_id, merchant_key, date, description, amount, score, method)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, a.MerchantKey, a.Transaction.Date, a.Transaction.Description,
			a.Transaction.Amount, a.Score, a.Method); err != nil {
			return fmt.Errorf("failed to insert anomaly for %q: %w", a.MerchantKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scan run: %w", err)
	}
	return nil
}

// LatestScanRun returns the most recent run with its candidates and
// anomalies, or common.ErrNotFound when no run exists.
func (s *SQLiteStorage) LatestScanRun(ctx context.Context) (*ScanRun, error) {
	run := &ScanRun{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, as_of, mode, transaction_count, created_at
		FROM scan_runs
		ORDER BY created_at DESC, id DESC
		LIMIT 1`).Scan(&run.ID, &run.AsOf, &run.Mode, &run.TransactionCount, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no scan runs", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scan run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT merchant_key, COALESCE(brand, ''), COALESCE(category, ''), COALESCE(cadence, ''),
		       count, mean_amount, COALESCE(cv, 0), probability,
		       is_recurring, is_subscription, missed_cycle, last_date, next_expected
		FROM scan_candidates
		WHERE run_id = ?
		ORDER BY rank`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c RunCandidate
		var last, next sql.NullTime
		if err := rows.Scan(&c.MerchantKey, &c.Brand, &c.Category, &c.Cadence,
			&c.Count, &c.MeanAmount, &c.CV, &c.Probability,
			&c.IsRecurring, &c.IsSubscription, &c.MissedCycle, &last, &next); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if last.Valid {
			c.LastDate = last.Time
		}
		if next.Valid {
			c.NextExpected = next.Time
		}
		run.Candidates = append(run.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	anomRows, err := s.db.QueryContext(ctx, `
		SELECT merchant_key, date, description, amount, score, method
		FROM scan_anomalies
		WHERE run_id = ?`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer func() { _ = anomRows.Close() }()

	for anomRows.Next() {
		var a model.AnomalyFlag
		if err := anomRows.Scan(&a.MerchantKey, &a.Transaction.Date, &a.Transaction.Description,
			&a.Transaction.Amount, &a.Score, &a.Method); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		a.Transaction.MerchantKey = a.MerchantKey
		run.Anomalies = append(run.Anomalies, a)
	}
	if err := anomRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate anomalies: %w", err)
	}

	return run, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
