package models

import "github.com/shopspring/decimal"

// Expense is money one group member fronted on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// CreatedBy is the member who recorded the expense. Only this member may
	// update or delete it.
	CreatedBy string

	// PaidBy is the member who paid.
	PaidBy string

	// PaidByName is the payer's display name, populated on reads only.
	PaidByName string

	// CategoryID optionally links the expense to a category.
	CategoryID string

	// Amount is the total paid.
	Amount decimal.Decimal

	Description string

	// SplitType records how Shares were derived: equal, exact, percentage or shares.
	SplitType string

	// TxnDate is the expense date in YYYY-MM-DD form.
	TxnDate string

	// Shares are the per-member obligations. They are expected, but not
	// guaranteed, to add up to Amount.
	Shares []ExpenseShare

	CreatedAt int64
}

// ExpenseShare is one member's portion of an expense.
type ExpenseShare struct {
	ExpenseID string
	UserID    string

	// ShareAmount is what the member owes for the expense. It is the only
	// value used for balances.
	ShareAmount decimal.Decimal

	// Percentage and Shares are the inputs of percentage and shares splits,
	// kept so the split can be recomputed when the amount changes.
	Percentage decimal.NullDecimal
	Shares     decimal.NullDecimal
}
