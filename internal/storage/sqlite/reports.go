package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

// Amounts are decimal strings, so totals are summed in Go rather than with
// SQL SUM, which would go through floating point.

// SumTransactions totals a user's transactions of one kind with
// from <= txn_date < to. An empty categoryID matches every category.
func (s *SQLiteStore) SumTransactions(ctx context.Context, userID, categoryID string, kind models.Kind, from, to string) (decimal.Decimal, error) {
	query := `SELECT amount FROM transactions
		WHERE user_id = ? AND txn_type = ? AND txn_date >= ? AND txn_date < ?`
	args := []any{userID, kind, from, to}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.NullDecimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		total = total.Add(amount.Decimal)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate amounts: %w", err)
	}

	return total, nil
}

// CategoryTotals groups a user's transactions with from <= txn_date < to by
// category, ordered by kind (income first) then category name.
func (s *SQLiteStore) CategoryTotals(ctx context.Context, userID, from, to string) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.category_id, COALESCE(c.name, ''), t.txn_type, t.amount
		 FROM transactions t LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.txn_date >= ? AND t.txn_date < ?
		 ORDER BY t.txn_type DESC, c.name, t.category_id`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load category totals: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	index := make(map[string]int)
	for rows.Next() {
		var (
			ct     models.CategoryTotal
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Kind, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}

		key := string(ct.Kind) + "/" + ct.CategoryID
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			ct.Total = decimal.Zero
			totals = append(totals, ct)
		}
		totals[i].Total = totals[i].Total.Add(amount.Decimal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}
