package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/subscout/subscout/internal/model"
)

// SaveTransactions inserts a batch, skipping records whose content hash is
// already present. Returns the number actually inserted. Transactions
// without an ID get one assigned.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, hash, date, description, amount, currency, type, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, t := range txns {
		id := t.ID
		if id == "" {
			id = uuid.NewString()
		}
		hash := t.Hash
		if hash == "" {
			hash = t.GenerateHash()
		}
		res, err := stmt.ExecContext(ctx, id, hash, t.Date, t.Description, t.Amount, t.Currency, t.Type, t.AccountID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// ListTransactions returns all stored transactions ordered by date.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, description, amount, currency, type, COALESCE(account_id, '')
		FROM transactions
		ORDER BY date, description`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Hash, &t.Date, &t.Description, &t.Amount, &t.Currency, &t.Type, &t.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
