package models

// Role is a member's permission level inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// CreatedBy is the owner's user ID. The owner cannot leave or be removed;
	// only the owner can rename or delete the group.
	CreatedBy string

	// OwnerName is the owner's display name. Populated on reads only.
	OwnerName string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupMember is one user's membership in a group.
type GroupMember struct {
	GroupID string
	UserID  string
	Role    Role

	// DisplayName and Email are joined from the users table on reads.
	DisplayName string
	Email       string

	JoinedAt int64
}
