package models

import "github.com/shopspring/decimal"

// Kind classifies categories and transactions.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is income or expense.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Category groups transactions and budgets.
type Category struct {
	ID   string
	Name string
	Kind Kind
}

// Transaction is a single entry in a user's personal ledger.
type Transaction struct {
	ID           string
	UserID       string
	CategoryID   string
	CategoryName string // populated on reads
	TxnType      Kind
	Amount       decimal.Decimal
	Description  string

	// TxnDate is the transaction date in YYYY-MM-DD form.
	TxnDate string

	// GroupID optionally tags the transaction with a group.
	GroupID   string
	GroupName string // populated on reads

	CreatedAt int64
	UpdatedAt int64
}

// CarryoverPolicy controls what happens to an unspent budget at month end.
type CarryoverPolicy string

const (
	CarryoverNone     CarryoverPolicy = "none"
	CarryoverRollover CarryoverPolicy = "rollover"
)

// Valid reports whether p is a known policy.
func (p CarryoverPolicy) Valid() bool {
	return p == CarryoverNone || p == CarryoverRollover
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID           string
	UserID       string
	CategoryID   string
	CategoryName string // populated on reads

	// PeriodMonth is the first day of the budget month, YYYY-MM-01.
	PeriodMonth string

	LimitAmount     decimal.Decimal
	CarryoverPolicy CarryoverPolicy

	CreatedAt int64
	UpdatedAt int64
}

// BudgetStatus tells whether spending exceeded the limit.
type BudgetStatus string

const (
	BudgetWithin BudgetStatus = "within"
	BudgetOver   BudgetStatus = "over"
)

// BudgetProgress is a budget together with the spending recorded against it.
type BudgetProgress struct {
	Budget    *Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Status    BudgetStatus
}

// CategoryTotal is the amount recorded in one category.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Kind         Kind
	Total        decimal.Decimal
}

// MonthlySummary reports a user's income and spending for one month.
type MonthlySummary struct {
	Year       int
	Month      int
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal
	Categories []CategoryTotal
	Budgets    []BudgetProgress
}
