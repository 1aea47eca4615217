package api

// ExpenseSplit is one participant's split input. Which field is read
// depends on the expense's split type: ShareAmount for exact, Percentage
// for percentage and Shares for shares. Equal splits only need UserId.
type ExpenseSplit struct {
	UserId      string  `json:"user_id"`
	ShareAmount float64 `json:"share_amount,omitempty"`
	Percentage  float64 `json:"percentage,omitempty"`
	Shares      float64 `json:"shares,omitempty"`
}

type ExpenseShare struct {
	UserId      string   `json:"user_id"`
	DisplayName string   `json:"display_name,omitempty"`
	ShareAmount float64  `json:"share_amount"`
	Percentage  *float64 `json:"percentage,omitempty"`
	Shares      *float64 `json:"shares,omitempty"`
}

type Expense struct {
	Id          string          `json:"id"`
	GroupId     string          `json:"group_id"`
	CreatedBy   string          `json:"created_by"`
	PaidBy      string          `json:"paid_by"`
	PaidByName  string          `json:"paid_by_name,omitempty"`
	CategoryId  string          `json:"category_id,omitempty"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	SplitType   string          `json:"split_type"`
	TxnDate     string          `json:"txn_date"`
	CreatedAt   int64           `json:"created_at"`
	Shares      []*ExpenseShare `json:"shares"`
}

type CreateExpenseRequest struct {
	GroupId     string  `json:"group_id"`
	PaidBy      string  `json:"paid_by"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	CategoryId  string  `json:"category_id,omitempty"`
	// SplitType is equal, exact, percentage or shares. Empty means equal.
	SplitType string `json:"split_type,omitempty"`
	// TxnDate is YYYY-MM-DD. Empty means today.
	TxnDate string `json:"txn_date,omitempty"`
	// Splits lists the participants. Empty means every group member, split equally.
	Splits []*ExpenseSplit `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupId string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseId   string  `json:"expense_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseId string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type Settlement struct {
	Id         string  `json:"id"`
	GroupId    string  `json:"group_id"`
	FromUserId string  `json:"from_user_id"`
	FromName   string  `json:"from_name,omitempty"`
	ToUserId   string  `json:"to_user_id"`
	ToName     string  `json:"to_name,omitempty"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
	CreatedBy  string  `json:"created_by"`
	CreatedAt  int64   `json:"created_at"`
}

type CreateSettlementRequest struct {
	GroupId    string  `json:"group_id"`
	FromUserId string  `json:"from_user_id"`
	ToUserId   string  `json:"to_user_id"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupId string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type UpdateSettlementRequest struct {
	SettlementId string  `json:"settlement_id"`
	Amount       float64 `json:"amount"`
	Note         string  `json:"note,omitempty"`
}

type UpdateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	SettlementId string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}
