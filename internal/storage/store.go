// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// SearchUsers matches query against display names and emails.
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup inserts the group and adds its creator as an admin.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)
	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes the group with its members, expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember reports whether a new membership was created. Existing
	// memberships are left untouched.
	AddMember(ctx context.Context, groupID, userID string, role models.Role) (bool, error)
	GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)
	UpdateMemberRole(ctx context.Context, groupID, userID string, role models.Role) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// ExpenseStore persists group expenses and their shares.
type ExpenseStore interface {
	// CreateExpense inserts the expense together with expense.Shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense returns the expense with its shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses oldest first, without shares.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpenseSharesByGroup returns every share of every expense in a group.
	ListExpenseSharesByGroup(ctx context.Context, groupID string) ([]models.ExpenseShare, error)

	// UpdateExpense rewrites amount, description and replaces the shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// SettlementStore persists payments between group members.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	UpdateSettlement(ctx context.Context, settlement *models.Settlement) error
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// LedgerStore persists the personal ledger: categories, transactions and budgets.
type LedgerStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)

	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error)

	// ListTransactionsByUser returns the user's transactions newest first.
	ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	DeleteTransaction(ctx context.Context, txnID string) error

	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, budgetID string) (*models.Budget, error)
	ListBudgetsByUser(ctx context.Context, userID string) ([]*models.Budget, error)

	// ListBudgetsForMonth returns the user's budgets for periodMonth (YYYY-MM-01).
	ListBudgetsForMonth(ctx context.Context, userID, periodMonth string) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error

	// SumTransactions totals a user's transactions of one kind in a category
	// with from <= txn_date < to. An empty categoryID matches every category.
	SumTransactions(ctx context.Context, userID, categoryID string, kind models.Kind, from, to string) (decimal.Decimal, error)

	// CategoryTotals groups a user's transactions with from <= txn_date < to
	// by category.
	CategoryTotals(ctx context.Context, userID, from, to string) ([]models.CategoryTotal, error)
}

// Store defines the full persistence surface used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore
	LedgerStore

	// Close releases any resources held by the store.
	Close() error
}
