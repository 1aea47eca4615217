package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

// CreateGroup persists a new group and makes its creator an admin member.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		group.ID, group.CreatedBy, models.RoleAdmin, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID with its owner's name.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT g.id, g.name, g.created_by, COALESCE(u.display_name, ''), g.created_at
		 FROM groups g LEFT JOIN users u ON u.id = g.created_by
		 WHERE g.id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.OwnerName, &group.CreatedAt)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}
	return group, nil
}

// ListGroupsForUser returns the groups a user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_by, COALESCE(u.display_name, ''), g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 LEFT JOIN users u ON u.id = g.created_by
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC, g.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.OwnerName, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// RenameGroup changes a group's name.
func (s *SQLiteStore) RenameGroup(ctx context.Context, groupID, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE groups SET name = ? WHERE id = ?", name, groupID)
	if err != nil {
		return fmt.Errorf("failed to rename group: %w", err)
	}
	return checkAffected(res, "group", groupID)
}

// DeleteGroup removes a group. Members, expenses, shares and settlements
// go with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(res, "group", groupID)
}

// AddMember inserts a membership unless it already exists.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string, role models.Role) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID, role, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

const memberSelect = `
	SELECT m.group_id, m.user_id, m.role, COALESCE(u.display_name, ''), COALESCE(u.email, ''), m.joined_at
	FROM group_members m LEFT JOIN users u ON u.id = m.user_id`

func scanMember(row rowScanner) (*models.GroupMember, error) {
	member := &models.GroupMember{}
	err := row.Scan(&member.GroupID, &member.UserID, &member.Role, &member.DisplayName, &member.Email, &member.JoinedAt)
	return member, err
}

// GetMember returns storage.ErrNotFound when userID is not in the group.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := scanMember(s.db.QueryRowContext(ctx,
		memberSelect+` WHERE m.group_id = ? AND m.user_id = ?`, groupID, userID))
	if err != nil {
		return nil, notFound(err, "member", userID)
	}
	return member, nil
}

// ListMembers returns a group's members in the order they joined.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		memberSelect+` WHERE m.group_id = ? ORDER BY m.joined_at, m.rowid`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// UpdateMemberRole sets a member's role.
func (s *SQLiteStore) UpdateMemberRole(ctx context.Context, groupID, userID string, role models.Role) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET role = ? WHERE group_id = ? AND user_id = ?",
		role, groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return checkAffected(res, "member", userID)
}

// RemoveMember deletes a membership. Expenses and settlements involving the
// member are kept so balances stay reproducible.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return checkAffected(res, "member", userID)
}
