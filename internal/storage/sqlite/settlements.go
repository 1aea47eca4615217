package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

const settlementSelect = `
	SELECT s.id, s.group_id, s.from_user_id, s.to_user_id, s.amount, s.note, s.created_by, s.created_at,
	       COALESCE(fu.display_name, ''), COALESCE(tu.display_name, '')
	FROM settlements s
	LEFT JOIN users fu ON fu.id = s.from_user_id
	LEFT JOIN users tu ON tu.id = s.to_user_id`

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note sql.NullString
	err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.Amount, &note, &settlement.CreatedBy, &settlement.CreatedAt,
		&settlement.FromName, &settlement.ToName)
	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, err
}

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, created_at, created_by, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, settlement.CreatedAt, settlement.CreatedBy, nullString(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx, settlementSelect+` WHERE s.id = ?`, settlementID))
	if err != nil {
		return nil, notFound(err, "settlement", settlementID)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		settlementSelect+` WHERE s.group_id = ? ORDER BY s.created_at DESC, s.rowid DESC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// UpdateSettlement changes a settlement's amount and note.
func (s *SQLiteStore) UpdateSettlement(ctx context.Context, settlement *models.Settlement) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET amount = ?, note = ? WHERE id = ?",
		settlement.Amount, nullString(settlement.Note), settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	return checkAffected(res, "settlement", settlement.ID)
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return checkAffected(res, "settlement", settlementID)
}
