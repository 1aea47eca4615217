package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

const expenseSelect = `
	SELECT e.id, e.group_id, e.created_by, e.paid_by, COALESCE(u.display_name, ''),
	       e.category_id, e.amount, e.description, e.split_type, e.txn_date, e.created_at
	FROM expenses e LEFT JOIN users u ON u.id = e.paid_by`

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var categoryID sql.NullString
	var amount decimal.NullDecimal
	err := row.Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.PaidBy,
		&expense.PaidByName,
		&categoryID,
		&amount,
		&expense.Description,
		&expense.SplitType,
		&expense.TxnDate,
		&expense.CreatedAt,
	)
	expense.CategoryID = categoryID.String
	expense.Amount = amount.Decimal
	return expense, err
}

// CreateExpense persists an expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.TxnDate == "" {
		expense.TxnDate = time.Unix(expense.CreatedAt, 0).UTC().Format(time.DateOnly)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, created_by, paid_by, category_id, amount, description, split_type, txn_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.CreatedBy, expense.PaidBy, nullString(expense.CategoryID),
		expense.Amount, expense.Description, expense.SplitType, expense.TxnDate, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, user_id, share_amount, percentage, shares)
			 VALUES (?, ?, ?, ?, ?)`,
			share.ExpenseID, share.UserID, share.ShareAmount, share.Percentage, share.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, expenseID))
	if err != nil {
		return nil, notFound(err, "expense", expenseID)
	}

	shares, err := s.listShares(ctx,
		`SELECT expense_id, user_id, share_amount, percentage, shares
		 FROM expense_shares WHERE expense_id = ? ORDER BY rowid`, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares

	return expense, nil
}

// ListExpensesByGroup retrieves a group's expenses oldest first. Shares are
// not loaded; use ListExpenseSharesByGroup.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		expenseSelect+` WHERE e.group_id = ? ORDER BY e.created_at, e.rowid`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListExpenseSharesByGroup retrieves the shares of every expense in a group,
// in expense order.
func (s *SQLiteStore) ListExpenseSharesByGroup(ctx context.Context, groupID string) ([]models.ExpenseShare, error) {
	return s.listShares(ctx,
		`SELECT es.expense_id, es.user_id, es.share_amount, es.percentage, es.shares
		 FROM expense_shares es JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ?
		 ORDER BY e.created_at, e.rowid, es.rowid`, groupID)
}

func (s *SQLiteStore) listShares(ctx context.Context, query string, args ...any) ([]models.ExpenseShare, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ExpenseShare
	for rows.Next() {
		var share models.ExpenseShare
		// A NULL share amount counts as zero.
		var amount decimal.NullDecimal
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &amount, &share.Percentage, &share.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.ShareAmount = amount.Decimal
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return shares, nil
}

// UpdateExpense rewrites an expense's amount and description and replaces
// its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET amount = ?, description = ? WHERE id = ?",
		expense.Amount, expense.Description, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := checkAffected(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense and its shares.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense", expenseID)
}
