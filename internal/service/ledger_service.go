package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
)

const defaultDescription = "No description"

var errNotYours = errors.New("this record belongs to another user")

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: a user's own
// categories, transactions and monthly budgets.
type LedgerService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger, now: time.Now}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{Id: c.ID, Name: c.Name, Kind: string(c.Kind)}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:           t.ID,
		CategoryId:   t.CategoryID,
		CategoryName: t.CategoryName,
		TxnType:      string(t.TxnType),
		Amount:       fromMoney(t.Amount),
		Description:  t.Description,
		TxnDate:      t.TxnDate,
		GroupId:      t.GroupID,
		GroupName:    t.GroupName,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toAPIBudget(b *models.Budget) *api.Budget {
	return &api.Budget{
		Id:              b.ID,
		CategoryId:      b.CategoryID,
		CategoryName:    b.CategoryName,
		PeriodMonth:     b.PeriodMonth,
		LimitAmount:     fromMoney(b.LimitAmount),
		CarryoverPolicy: string(b.CarryoverPolicy),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toAPIProgress(p models.BudgetProgress) *api.BudgetProgress {
	return &api.BudgetProgress{
		Budget:    toAPIBudget(p.Budget),
		Spent:     fromMoney(p.Spent),
		Remaining: fromMoney(p.Remaining),
		Status:    string(p.Status),
	}
}

// normalizeMonth accepts YYYY-MM or YYYY-MM-DD and returns the first day of
// that month as YYYY-MM-01.
func normalizeMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	layout := "2006-01"
	if len(s) == len(time.DateOnly) {
		layout = time.DateOnly
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("period_month must be YYYY-MM or YYYY-MM-DD: %q", s)
	}
	return monthStart(t.Year(), t.Month()).Format(time.DateOnly), nil
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// monthRange returns [first day, first day of next month) for a YYYY-MM-01
// period.
func monthRange(periodMonth string) (string, string, error) {
	t, err := time.Parse(time.DateOnly, periodMonth)
	if err != nil {
		return "", "", err
	}
	return t.Format(time.DateOnly), t.AddDate(0, 1, 0).Format(time.DateOnly), nil
}

func (s *LedgerService) requireCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	if categoryID == "" {
		return nil, invalidArgument("category_id required")
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, invalidArgument("unknown category %s", categoryID)
	}
	if err != nil {
		return nil, storageError(err)
	}
	return category, nil
}

// CreateCategory adds a shared category.
func (s *LedgerService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	kind := models.Kind(req.Msg.Kind)
	if name == "" {
		return nil, invalidArgument("category name is required")
	}
	if !kind.Valid() {
		return nil, invalidArgument("kind must be income or expense")
	}

	category := &models.Category{Name: name, Kind: kind}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			s.logger.Error("CreateCategory failed", "name", name, "error", err)
		}
		return nil, storageError(err)
	}

	s.logger.Info("Category created", "category_id", category.ID, "name", name, "kind", kind)
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

func (s *LedgerService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error("ListCategories failed", "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = toAPICategory(c)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// checkTransactionGroup verifies the caller may tag a transaction with groupID.
func (s *LedgerService) checkTransactionGroup(ctx context.Context, groupID, userID string) error {
	if groupID == "" {
		return nil
	}
	_, _, err := membership(ctx, s.store, groupID, userID)
	return err
}

// CreateTransaction records income or spending in the caller's ledger.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("CreateTransaction request received",
		"user_id", userID,
		"category_id", msg.CategoryId,
		"txn_type", msg.TxnType,
		"amount", msg.Amount,
	)

	kind := models.Kind(msg.TxnType)
	if !kind.Valid() {
		return nil, invalidArgument("txn_type must be income or expense")
	}
	amount, err := positiveMoney("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	if !validDate(msg.TxnDate) {
		return nil, invalidArgument("txn_date must be YYYY-MM-DD")
	}
	if _, err := s.requireCategory(ctx, msg.CategoryId); err != nil {
		return nil, err
	}
	if err := s.checkTransactionGroup(ctx, msg.GroupId, userID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		description = defaultDescription
	}

	txn := &models.Transaction{
		UserID:      userID,
		CategoryID:  msg.CategoryId,
		TxnType:     kind,
		Amount:      amount,
		Description: description,
		TxnDate:     msg.TxnDate,
		GroupID:     msg.GroupId,
	}
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		s.logger.Error("CreateTransaction failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	created, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("CreateTransaction successful", "transaction_id", txn.ID)
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(created)}), nil
}

// ListTransactions returns the caller's transactions, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := s.store.ListTransactionsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListTransactions failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

func (s *LedgerService) loadOwnTransaction(ctx context.Context, txnID, userID string) (*models.Transaction, error) {
	if txnID == "" {
		return nil, invalidArgument("transaction_id required")
	}
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		return nil, storageError(err)
	}
	if txn.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotYours)
	}
	return txn, nil
}

// UpdateTransaction changes the fields set in the request.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	txn, err := s.loadOwnTransaction(ctx, msg.TransactionId, userID)
	if err != nil {
		return nil, err
	}

	if msg.CategoryId != "" {
		if _, err := s.requireCategory(ctx, msg.CategoryId); err != nil {
			return nil, err
		}
		txn.CategoryID = msg.CategoryId
	}
	if msg.TxnType != "" {
		kind := models.Kind(msg.TxnType)
		if !kind.Valid() {
			return nil, invalidArgument("txn_type must be income or expense")
		}
		txn.TxnType = kind
	}
	if msg.Amount != 0 {
		amount, err := positiveMoney("amount", msg.Amount)
		if err != nil {
			return nil, err
		}
		txn.Amount = amount
	}
	if d := strings.TrimSpace(msg.Description); d != "" {
		txn.Description = d
	}
	if msg.TxnDate != "" {
		if !validDate(msg.TxnDate) {
			return nil, invalidArgument("txn_date must be YYYY-MM-DD")
		}
		txn.TxnDate = msg.TxnDate
	}
	if msg.GroupId != "" {
		if err := s.checkTransactionGroup(ctx, msg.GroupId, userID); err != nil {
			return nil, err
		}
		txn.GroupID = msg.GroupId
	}

	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		s.logger.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, storageError(err)
	}

	updated, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("UpdateTransaction successful", "transaction_id", txn.ID)
	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(updated)}), nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.loadOwnTransaction(ctx, req.Msg.TransactionId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteTransaction(ctx, txn.ID); err != nil {
		s.logger.Error("DeleteTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("DeleteTransaction successful", "transaction_id", txn.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// CreateBudget sets a spending limit for one category and month. There can
// be one budget per category and month.
func (s *LedgerService) CreateBudget(ctx context.Context, req *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("CreateBudget request received",
		"user_id", userID,
		"category_id", msg.CategoryId,
		"period_month", msg.PeriodMonth,
		"limit_amount", msg.LimitAmount,
	)

	if _, err := s.requireCategory(ctx, msg.CategoryId); err != nil {
		return nil, err
	}
	period, err := normalizeMonth(msg.PeriodMonth)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	limit, err := positiveMoney("limit_amount", msg.LimitAmount)
	if err != nil {
		return nil, err
	}
	policy := models.CarryoverNone
	if msg.CarryoverPolicy != "" {
		policy = models.CarryoverPolicy(msg.CarryoverPolicy)
		if !policy.Valid() {
			return nil, invalidArgument("carryover_policy must be none or rollover")
		}
	}

	budget := &models.Budget{
		UserID:          userID,
		CategoryID:      msg.CategoryId,
		PeriodMonth:     period,
		LimitAmount:     limit,
		CarryoverPolicy: policy,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			s.logger.Error("CreateBudget failed", "user_id", userID, "error", err)
		}
		return nil, storageError(err)
	}

	created, err := s.store.GetBudget(ctx, budget.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("CreateBudget successful", "budget_id", budget.ID, "period_month", period)
	return connect.NewResponse(&api.CreateBudgetResponse{Budget: toAPIBudget(created)}), nil
}

// ListBudgets returns the caller's budgets, latest month first.
func (s *LedgerService) ListBudgets(ctx context.Context, req *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	budgets, err := s.store.ListBudgetsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListBudgets failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Budget, len(budgets))
	for i, b := range budgets {
		out[i] = toAPIBudget(b)
	}
	return connect.NewResponse(&api.ListBudgetsResponse{Budgets: out}), nil
}

func (s *LedgerService) loadOwnBudget(ctx context.Context, budgetID, userID string) (*models.Budget, error) {
	if budgetID == "" {
		return nil, invalidArgument("budget_id required")
	}
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, storageError(err)
	}
	if budget.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotYours)
	}
	return budget, nil
}

func (s *LedgerService) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	budget, err := s.loadOwnBudget(ctx, req.Msg.BudgetId, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBudgetResponse{Budget: toAPIBudget(budget)}), nil
}

// UpdateBudget changes the fields set in the request.
func (s *LedgerService) UpdateBudget(ctx context.Context, req *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	budget, err := s.loadOwnBudget(ctx, msg.BudgetId, userID)
	if err != nil {
		return nil, err
	}

	if msg.CategoryId != "" {
		if _, err := s.requireCategory(ctx, msg.CategoryId); err != nil {
			return nil, err
		}
		budget.CategoryID = msg.CategoryId
	}
	if msg.PeriodMonth != "" {
		period, err := normalizeMonth(msg.PeriodMonth)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		budget.PeriodMonth = period
	}
	if msg.LimitAmount != 0 {
		limit, err := positiveMoney("limit_amount", msg.LimitAmount)
		if err != nil {
			return nil, err
		}
		budget.LimitAmount = limit
	}
	if msg.CarryoverPolicy != "" {
		policy := models.CarryoverPolicy(msg.CarryoverPolicy)
		if !policy.Valid() {
			return nil, invalidArgument("carryover_policy must be none or rollover")
		}
		budget.CarryoverPolicy = policy
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			s.logger.Error("UpdateBudget failed", "budget_id", budget.ID, "error", err)
		}
		return nil, storageError(err)
	}

	updated, err := s.store.GetBudget(ctx, budget.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("UpdateBudget successful", "budget_id", budget.ID)
	return connect.NewResponse(&api.UpdateBudgetResponse{Budget: toAPIBudget(updated)}), nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, req *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	budget, err := s.loadOwnBudget(ctx, req.Msg.BudgetId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteBudget(ctx, budget.ID); err != nil {
		s.logger.Error("DeleteBudget failed", "budget_id", budget.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("DeleteBudget successful", "budget_id", budget.ID)
	return connect.NewResponse(&api.DeleteBudgetResponse{}), nil
}

// progress measures a budget against the owner's expense transactions in its
// category and month.
func (s *LedgerService) progress(ctx context.Context, budget *models.Budget) (models.BudgetProgress, error) {
	from, to, err := monthRange(budget.PeriodMonth)
	if err != nil {
		return models.BudgetProgress{}, fmt.Errorf("budget %s has malformed period %q: %w", budget.ID, budget.PeriodMonth, err)
	}

	spent, err := s.store.SumTransactions(ctx, budget.UserID, budget.CategoryID, models.KindExpense, from, to)
	if err != nil {
		return models.BudgetProgress{}, err
	}

	status := models.BudgetWithin
	if spent.GreaterThan(budget.LimitAmount) {
		status = models.BudgetOver
	}
	return models.BudgetProgress{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.LimitAmount.Sub(spent),
		Status:    status,
	}, nil
}

func (s *LedgerService) GetBudgetProgress(ctx context.Context, req *connect.Request[api.GetBudgetProgressRequest]) (*connect.Response[api.GetBudgetProgressResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	budget, err := s.loadOwnBudget(ctx, req.Msg.BudgetId, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.progress(ctx, budget)
	if err != nil {
		s.logger.Error("GetBudgetProgress failed", "budget_id", budget.ID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetBudgetProgressResponse{Progress: toAPIProgress(p)}), nil
}

// GetMonthlySummary reports the caller's income, spending and budget use for
// one month. A zero year or month means the current one.
func (s *LedgerService) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	year, month := int(req.Msg.Year), int(req.Msg.Month)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, invalidArgument("month must be between 1 and 12")
	}

	start := monthStart(year, time.Month(month))
	from, to := start.Format(time.DateOnly), start.AddDate(0, 1, 0).Format(time.DateOnly)

	summary, err := s.monthlySummary(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("GetMonthlySummary failed", "user_id", userID, "period", from, "error", err)
		return nil, storageError(err)
	}
	summary.Year, summary.Month = year, month

	out := &api.MonthlySummary{
		Year:       int32(summary.Year),
		Month:      int32(summary.Month),
		Income:     fromMoney(summary.Income),
		Expense:    fromMoney(summary.Expense),
		Balance:    fromMoney(summary.Balance),
		Categories: make([]*api.CategoryTotal, len(summary.Categories)),
		Budgets:    make([]*api.BudgetProgress, len(summary.Budgets)),
	}
	for i, ct := range summary.Categories {
		out.Categories[i] = &api.CategoryTotal{
			CategoryId:   ct.CategoryID,
			CategoryName: ct.CategoryName,
			Kind:         string(ct.Kind),
			Total:        fromMoney(ct.Total),
		}
	}
	for i, p := range summary.Budgets {
		out.Budgets[i] = toAPIProgress(p)
	}

	s.logger.Info("GetMonthlySummary successful", "user_id", userID, "period", from)
	return connect.NewResponse(&api.GetMonthlySummaryResponse{Summary: out}), nil
}

func (s *LedgerService) monthlySummary(ctx context.Context, userID, from, to string) (*models.MonthlySummary, error) {
	income, err := s.store.SumTransactions(ctx, userID, "", models.KindIncome, from, to)
	if err != nil {
		return nil, err
	}
	expense, err := s.store.SumTransactions(ctx, userID, "", models.KindExpense, from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgetsForMonth(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{
		Income:     income,
		Expense:    expense,
		Balance:    income.Sub(expense),
		Categories: totals,
		Budgets:    make([]models.BudgetProgress, 0, len(budgets)),
	}
	for _, b := range budgets {
		p, err := s.progress(ctx, b)
		if err != nil {
			return nil, err
		}
		summary.Budgets = append(summary.Budgets, p)
	}
	return summary, nil
}
