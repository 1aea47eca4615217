package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
)

// CreateCategory inserts a category. A category with the same name and kind
// yields storage.ErrConflict.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, kind) VALUES (?, ?, ?)",
		category.ID, category.Name, category.Kind,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("category %s: %w", category.Name, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, kind FROM categories WHERE id = ?", categoryID,
	).Scan(&category.ID, &category.Name, &category.Kind)
	if err != nil {
		return nil, notFound(err, "category", categoryID)
	}
	return category, nil
}

// ListCategories returns every category, income first, then by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, kind FROM categories ORDER BY kind DESC, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
