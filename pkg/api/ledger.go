package api

type Category struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type Transaction struct {
	Id           string  `json:"id"`
	CategoryId   string  `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	TxnType      string  `json:"txn_type"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	TxnDate      string  `json:"txn_date"`
	GroupId      string  `json:"group_id,omitempty"`
	GroupName    string  `json:"group_name,omitempty"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

type CreateTransactionRequest struct {
	CategoryId  string  `json:"category_id"`
	TxnType     string  `json:"txn_type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	TxnDate     string  `json:"txn_date"`
	GroupId     string  `json:"group_id,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// UpdateTransactionRequest replaces the fields that are set. Zero values keep
// the stored value.
type UpdateTransactionRequest struct {
	TransactionId string  `json:"transaction_id"`
	CategoryId    string  `json:"category_id,omitempty"`
	TxnType       string  `json:"txn_type,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Description   string  `json:"description,omitempty"`
	TxnDate       string  `json:"txn_date,omitempty"`
	GroupId       string  `json:"group_id,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionId string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

type Budget struct {
	Id              string  `json:"id"`
	CategoryId      string  `json:"category_id"`
	CategoryName    string  `json:"category_name,omitempty"`
	PeriodMonth     string  `json:"period_month"`
	LimitAmount     float64 `json:"limit_amount"`
	CarryoverPolicy string  `json:"carryover_policy"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
}

type CreateBudgetRequest struct {
	CategoryId string `json:"category_id"`
	// PeriodMonth is YYYY-MM or YYYY-MM-DD; it is stored as the first of the month.
	PeriodMonth     string  `json:"period_month"`
	LimitAmount     float64 `json:"limit_amount"`
	CarryoverPolicy string  `json:"carryover_policy,omitempty"`
}

type CreateBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type ListBudgetsRequest struct{}

type ListBudgetsResponse struct {
	Budgets []*Budget `json:"budgets"`
}

type GetBudgetRequest struct {
	BudgetId string `json:"budget_id"`
}

type GetBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

// UpdateBudgetRequest replaces the fields that are set. Zero values keep the
// stored value.
type UpdateBudgetRequest struct {
	BudgetId        string  `json:"budget_id"`
	CategoryId      string  `json:"category_id,omitempty"`
	PeriodMonth     string  `json:"period_month,omitempty"`
	LimitAmount     float64 `json:"limit_amount,omitempty"`
	CarryoverPolicy string  `json:"carryover_policy,omitempty"`
}

type UpdateBudgetResponse struct {
	Budget *Budget `json:"budget"`
}

type DeleteBudgetRequest struct {
	BudgetId string `json:"budget_id"`
}

type DeleteBudgetResponse struct{}

type BudgetProgress struct {
	Budget    *Budget `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	// Status is "over" when Spent exceeds the limit, otherwise "within".
	Status string `json:"status"`
}

type GetBudgetProgressRequest struct {
	BudgetId string `json:"budget_id"`
}

type GetBudgetProgressResponse struct {
	Progress *BudgetProgress `json:"progress"`
}

type CategoryTotal struct {
	CategoryId   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Kind         string  `json:"kind"`
	Total        float64 `json:"total"`
}

type MonthlySummary struct {
	Year       int32             `json:"year"`
	Month      int32             `json:"month"`
	Income     float64           `json:"income"`
	Expense    float64           `json:"expense"`
	Balance    float64           `json:"balance"`
	Categories []*CategoryTotal  `json:"categories"`
	Budgets    []*BudgetProgress `json:"budgets"`
}

type GetMonthlySummaryRequest struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

type GetMonthlySummaryResponse struct {
	Summary *MonthlySummary `json:"summary"`
}
