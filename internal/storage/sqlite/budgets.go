package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
)

const budgetSelect = `
	SELECT b.id, b.user_id, b.category_id, COALESCE(c.name, ''), b.period_month, b.limit_amount,
	       b.carryover_policy, b.created_at, b.updated_at
	FROM budgets b LEFT JOIN categories c ON c.id = b.category_id`

func scanBudget(row rowScanner) (*models.Budget, error) {
	budget := &models.Budget{}
	err := row.Scan(&budget.ID, &budget.UserID, &budget.CategoryID, &budget.CategoryName, &budget.PeriodMonth,
		&budget.LimitAmount, &budget.CarryoverPolicy, &budget.CreatedAt, &budget.UpdatedAt)
	return budget, err
}

// CreateBudget inserts a budget. A second budget for the same category and
// month yields storage.ErrConflict.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if budget.CreatedAt == 0 {
		budget.CreatedAt = now
	}
	budget.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category_id, period_month, limit_amount, carryover_policy, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.CategoryID, budget.PeriodMonth, budget.LimitAmount,
		budget.CarryoverPolicy, budget.CreatedAt, budget.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("budget for %s in %s: %w", budget.CategoryID, budget.PeriodMonth, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	budget, err := scanBudget(s.db.QueryRowContext(ctx, budgetSelect+` WHERE b.id = ?`, budgetID))
	if err != nil {
		return nil, notFound(err, "budget", budgetID)
	}
	return budget, nil
}

// ListBudgetsByUser returns a user's budgets, latest month first.
func (s *SQLiteStore) ListBudgetsByUser(ctx context.Context, userID string) ([]*models.Budget, error) {
	return s.listBudgets(ctx,
		budgetSelect+` WHERE b.user_id = ? ORDER BY b.period_month DESC, c.name`, userID)
}

func (s *SQLiteStore) ListBudgetsForMonth(ctx context.Context, userID, periodMonth string) ([]*models.Budget, error) {
	return s.listBudgets(ctx,
		budgetSelect+` WHERE b.user_id = ? AND b.period_month = ? ORDER BY c.name`, userID, periodMonth)
}

func (s *SQLiteStore) listBudgets(ctx context.Context, query string, args ...any) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

// UpdateBudget rewrites a budget's category, month, limit and carryover policy.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category_id = ?, period_month = ?, limit_amount = ?, carryover_policy = ?, updated_at = ?
		 WHERE id = ?`,
		budget.CategoryID, budget.PeriodMonth, budget.LimitAmount, budget.CarryoverPolicy, budget.UpdatedAt, budget.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("budget for %s in %s: %w", budget.CategoryID, budget.PeriodMonth, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return checkAffected(res, "budget", budget.ID)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, budgetID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return checkAffected(res, "budget", budgetID)
}
