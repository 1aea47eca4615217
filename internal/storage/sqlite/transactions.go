package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, COALESCE(c.name, ''), t.txn_type, t.amount,
	       t.description, t.txn_date, t.group_id, COALESCE(g.name, ''), t.created_at, t.updated_at
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN groups g ON g.id = t.group_id`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var groupID sql.NullString
	err := row.Scan(&txn.ID, &txn.UserID, &txn.CategoryID, &txn.CategoryName, &txn.TxnType, &txn.Amount,
		&txn.Description, &txn.TxnDate, &groupID, &txn.GroupName, &txn.CreatedAt, &txn.UpdatedAt)
	txn.GroupID = groupID.String
	return txn, err
}

// CreateTransaction inserts a ledger entry.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if txn.CreatedAt == 0 {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, category_id, txn_type, amount, description, txn_date, group_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.CategoryID, txn.TxnType, txn.Amount, txn.Description,
		txn.TxnDate, nullString(txn.GroupID), txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error) {
	txn, err := scanTransaction(s.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, txnID))
	if err != nil {
		return nil, notFound(err, "transaction", txnID)
	}
	return txn, nil
}

// ListTransactionsByUser returns a user's transactions, newest date first.
func (s *SQLiteStore) ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		transactionSelect+` WHERE t.user_id = ? ORDER BY t.txn_date DESC, t.created_at DESC, t.rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// UpdateTransaction rewrites every editable field of a transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET category_id = ?, txn_type = ?, amount = ?, description = ?, txn_date = ?, group_id = ?, updated_at = ?
		 WHERE id = ?`,
		txn.CategoryID, txn.TxnType, txn.Amount, txn.Description, txn.TxnDate,
		nullString(txn.GroupID), txn.UpdatedAt, txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return checkAffected(res, "transaction", txn.ID)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, txnID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txnID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(res, "transaction", txnID)
}
