package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/chimt4chi/personal-budget-tracker/internal/calculator"
	"github.com/chimt4chi/personal-budget-tracker/internal/events"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService: shared group
// expenses and the settlements that pay them back.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewExpenseService creates a new ExpenseService. A nil publisher disables
// events.
func NewExpenseService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpenseService{store: store, publisher: publisher, logger: logger}
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func toAPIExpense(expense *models.Expense, names map[string]string) *api.Expense {
	out := &api.Expense{
		Id:          expense.ID,
		GroupId:     expense.GroupID,
		CreatedBy:   expense.CreatedBy,
		PaidBy:      expense.PaidBy,
		PaidByName:  expense.PaidByName,
		CategoryId:  expense.CategoryID,
		Amount:      fromMoney(expense.Amount),
		Description: expense.Description,
		SplitType:   expense.SplitType,
		TxnDate:     expense.TxnDate,
		CreatedAt:   expense.CreatedAt,
		Shares:      make([]*api.ExpenseShare, len(expense.Shares)),
	}
	if out.PaidByName == "" {
		out.PaidByName = names[expense.PaidBy]
	}
	for i, sh := range expense.Shares {
		out.Shares[i] = &api.ExpenseShare{
			UserId:      sh.UserID,
			DisplayName: names[sh.UserID],
			ShareAmount: fromMoney(sh.ShareAmount),
			Percentage:  nullFloat(sh.Percentage),
			Shares:      nullFloat(sh.Shares),
		}
	}
	return out
}

func toAPISettlement(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		Id:         settlement.ID,
		GroupId:    settlement.GroupID,
		FromUserId: settlement.FromUserID,
		FromName:   settlement.FromName,
		ToUserId:   settlement.ToUserID,
		ToName:     settlement.ToName,
		Amount:     fromMoney(settlement.Amount),
		Note:       settlement.Note,
		CreatedBy:  settlement.CreatedBy,
		CreatedAt:  settlement.CreatedAt,
	}
}

// validDate reports whether s is a YYYY-MM-DD calendar date.
func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// splitError maps calculator validation failures onto InvalidArgument.
func splitError(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}

// buildShares turns request splits into stored shares. Empty splits mean an
// equal split across the whole group.
func (s *ExpenseService) buildShares(ctx context.Context, groupID string, amount decimal.Decimal, splitType calculator.SplitType, splits []*api.ExpenseSplit) ([]models.ExpenseShare, error) {
	var inputs []calculator.SplitInput[string]
	if len(splits) == 0 {
		if splitType != calculator.SplitEqual {
			return nil, invalidArgument("splits are required for %s splits", splitType)
		}
		members, err := s.store.ListMembers(ctx, groupID)
		if err != nil {
			return nil, storageError(err)
		}
		for _, m := range members {
			inputs = append(inputs, calculator.SplitInput[string]{UserID: m.UserID})
		}
	} else {
		ids := make([]string, 0, len(splits))
		for _, sp := range splits {
			if sp == nil || sp.UserId == "" {
				return nil, invalidArgument("every split needs a user_id")
			}
			ids = append(ids, sp.UserId)
			inputs = append(inputs, calculator.SplitInput[string]{
				UserID:      sp.UserId,
				ShareAmount: toMoney(sp.ShareAmount),
				Percentage:  decimal.NewFromFloat(sp.Percentage),
				Shares:      decimal.NewFromFloat(sp.Shares),
			})
		}
		if err := requireMembers(ctx, s.store, groupID, ids...); err != nil {
			return nil, err
		}
	}

	computed, err := calculator.CalculateShares(amount, splitType, inputs)
	if err != nil {
		return nil, splitError(err)
	}

	if splitType == calculator.SplitExact {
		if total := calculator.SharesTotal(computed); !total.Equal(amount) {
			s.logger.Warn("Exact split does not add up to the expense amount",
				"group_id", groupID,
				"amount", amount.String(),
				"shares_total", total.String(),
			)
		}
	}

	shares := make([]models.ExpenseShare, len(computed))
	for i, c := range computed {
		shares[i] = models.ExpenseShare{UserID: c.UserID, ShareAmount: c.ShareAmount}
		switch splitType {
		case calculator.SplitPercentage:
			shares[i].Percentage = decimal.NewNullDecimal(inputs[i].Percentage)
		case calculator.SplitShares:
			shares[i].Shares = decimal.NewNullDecimal(inputs[i].Shares)
		}
	}
	return shares, nil
}

// rescaleShares recomputes an expense's shares for a new amount, keeping the
// participants and the original split inputs. Exact splits are rescaled in
// proportion to the old share amounts.
func rescaleShares(amount decimal.Decimal, splitType calculator.SplitType, old []models.ExpenseShare) ([]models.ExpenseShare, error) {
	inputs := make([]calculator.SplitInput[string], len(old))
	oldTotal := decimal.Zero
	for i, sh := range old {
		inputs[i] = calculator.SplitInput[string]{
			UserID:     sh.UserID,
			Percentage: sh.Percentage.Decimal,
			Shares:     sh.Shares.Decimal,
		}
		oldTotal = oldTotal.Add(sh.ShareAmount)
	}

	effective := splitType
	if splitType == calculator.SplitExact {
		if oldTotal.IsPositive() {
			effective = calculator.SplitShares
			for i, sh := range old {
				inputs[i].Shares = sh.ShareAmount
			}
		} else {
			effective = calculator.SplitEqual
		}
	}

	computed, err := calculator.CalculateShares(amount, effective, inputs)
	if err != nil {
		return nil, err
	}

	shares := make([]models.ExpenseShare, len(computed))
	for i, c := range computed {
		shares[i] = models.ExpenseShare{
			UserID:      c.UserID,
			ShareAmount: c.ShareAmount,
			Percentage:  old[i].Percentage,
			Shares:      old[i].Shares,
		}
	}
	return shares, nil
}

// CreateExpense records an expense paid by one member and splits it among
// the participants.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("CreateExpense request received",
		"group_id", msg.GroupId,
		"paid_by", msg.PaidBy,
		"amount", msg.Amount,
		"split_type", msg.SplitType,
		"splits", len(msg.Splits),
	)

	if _, _, err := membership(ctx, s.store, msg.GroupId, userID); err != nil {
		return nil, err
	}

	amount, err := positiveMoney("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	splitType, err := calculator.ParseSplitType(msg.SplitType)
	if err != nil {
		return nil, splitError(err)
	}
	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidArgument("description is required")
	}
	if msg.TxnDate != "" && !validDate(msg.TxnDate) {
		return nil, invalidArgument("txn_date must be YYYY-MM-DD")
	}

	paidBy := msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}
	if err := requireMembers(ctx, s.store, msg.GroupId, paidBy); err != nil {
		return nil, err
	}

	if msg.CategoryId != "" {
		if _, err := s.store.GetCategory(ctx, msg.CategoryId); errors.Is(err, storage.ErrNotFound) {
			return nil, invalidArgument("unknown category %s", msg.CategoryId)
		} else if err != nil {
			return nil, storageError(err)
		}
	}

	shares, err := s.buildShares(ctx, msg.GroupId, amount, splitType, msg.Splits)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     msg.GroupId,
		CreatedBy:   userID,
		PaidBy:      paidBy,
		CategoryID:  msg.CategoryId,
		Amount:      amount,
		Description: description,
		SplitType:   string(splitType),
		TxnDate:     msg.TxnDate,
		Shares:      shares,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed - could not save expense", "group_id", msg.GroupId, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, s.logger, events.TypeExpenseCreated, expense.GroupID, userID, events.ExpenseCreated{
		ExpenseID: expense.ID,
		PaidBy:    expense.PaidBy,
		Amount:    expense.Amount.StringFixed(calculator.CurrencyPlaces),
		SplitType: expense.SplitType,
	})

	ids := []string{expense.PaidBy}
	for _, sh := range expense.Shares {
		ids = append(ids, sh.UserID)
	}
	names, err := displayNames(ctx, s.store, expense.GroupID, ids)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("CreateExpense successful", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense, names)}), nil
}

// ListExpenses returns a group's expenses oldest first, with their shares.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupId
	if _, _, err := membership(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}
	shares, err := s.store.ListExpenseSharesByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("ListExpenses failed - could not load shares", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	byExpense := make(map[string][]models.ExpenseShare, len(expenses))
	var ids []string
	for _, sh := range shares {
		byExpense[sh.ExpenseID] = append(byExpense[sh.ExpenseID], sh)
		ids = append(ids, sh.UserID)
	}
	names, err := displayNames(ctx, s.store, groupID, ids)
	if err != nil {
		return nil, storageError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		e.Shares = byExpense[e.ID]
		out[i] = toAPIExpense(e, names)
	}

	s.logger.Info("ListExpenses successful", "group_id", groupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// loadOwnExpense fetches an expense the caller created and still has access to.
func (s *ExpenseService) loadOwnExpense(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, storageError(err)
	}
	if _, _, err := membership(ctx, s.store, expense.GroupID, userID); err != nil {
		return nil, err
	}
	if expense.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotCreator)
	}
	return expense, nil
}

// UpdateExpense changes an expense's amount and description. Shares are
// recomputed for the new amount using the original split. Creator only.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseId, "amount", req.Msg.Amount)

	expense, err := s.loadOwnExpense(ctx, req.Msg.ExpenseId, userID)
	if err != nil {
		return nil, err
	}

	amount, err := positiveMoney("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if d := strings.TrimSpace(req.Msg.Description); d != "" {
		expense.Description = d
	}

	splitType, err := calculator.ParseSplitType(expense.SplitType)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	shares, err := rescaleShares(amount, splitType, expense.Shares)
	if err != nil {
		return nil, splitError(err)
	}
	expense.Amount = amount
	expense.Shares = shares

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError(err)
	}

	ids := []string{expense.PaidBy}
	for _, sh := range expense.Shares {
		ids = append(ids, sh.UserID)
	}
	names, err := displayNames(ctx, s.store, expense.GroupID, ids)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("UpdateExpense successful", "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense, names)}), nil
}

// DeleteExpense removes an expense and its shares. Creator only.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.loadOwnExpense(ctx, req.Msg.ExpenseId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("DeleteExpense successful", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// CreateSettlement records a payment from one member to another.
func (s *ExpenseService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("CreateSettlement request received",
		"group_id", msg.GroupId,
		"from_user_id", msg.FromUserId,
		"to_user_id", msg.ToUserId,
		"amount", msg.Amount,
	)

	if _, _, err := membership(ctx, s.store, msg.GroupId, userID); err != nil {
		return nil, err
	}

	amount, err := positiveMoney("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	fromUserID := msg.FromUserId
	if fromUserID == "" {
		fromUserID = userID
	}
	if msg.ToUserId == "" {
		return nil, invalidArgument("to_user_id required")
	}
	if fromUserID == msg.ToUserId {
		return nil, invalidArgument("cannot settle with yourself")
	}
	if err := requireMembers(ctx, s.store, msg.GroupId, fromUserID, msg.ToUserId); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID:    msg.GroupId,
		FromUserID: fromUserID,
		ToUserID:   msg.ToUserId,
		Amount:     amount,
		Note:       strings.TrimSpace(msg.Note),
		CreatedBy:  userID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("CreateSettlement failed", "group_id", msg.GroupId, "error", err)
		return nil, storageError(err)
	}

	events.Emit(ctx, s.publisher, s.logger, events.TypeSettlementRecorded, settlement.GroupID, userID, events.SettlementRecorded{
		SettlementID: settlement.ID,
		FromUserID:   settlement.FromUserID,
		ToUserID:     settlement.ToUserID,
		Amount:       settlement.Amount.StringFixed(calculator.CurrencyPlaces),
	})

	created, err := s.store.GetSettlement(ctx, settlement.ID)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("CreateSettlement successful", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(created)}), nil
}

// ListSettlements returns a group's settlements newest first.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groupID := req.Msg.GroupId
	if _, _, err := membership(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// loadOwnSettlement fetches a settlement paid by the caller.
func (s *ExpenseService) loadOwnSettlement(ctx context.Context, settlementID, userID string) (*models.Settlement, error) {
	if settlementID == "" {
		return nil, invalidArgument("settlement_id required")
	}
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, storageError(err)
	}
	if _, _, err := membership(ctx, s.store, settlement.GroupID, userID); err != nil {
		return nil, err
	}
	if settlement.FromUserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotCreator)
	}
	return settlement, nil
}

// UpdateSettlement changes the amount and note of a settlement. Only the
// paying member may change it.
func (s *ExpenseService) UpdateSettlement(ctx context.Context, req *connect.Request[api.UpdateSettlementRequest]) (*connect.Response[api.UpdateSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.loadOwnSettlement(ctx, req.Msg.SettlementId, userID)
	if err != nil {
		return nil, err
	}

	amount, err := positiveMoney("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	settlement.Amount = amount
	settlement.Note = strings.TrimSpace(req.Msg.Note)

	if err := s.store.UpdateSettlement(ctx, settlement); err != nil {
		s.logger.Error("UpdateSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("UpdateSettlement successful", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.UpdateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// DeleteSettlement removes a settlement. Only the paying member may delete it.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.loadOwnSettlement(ctx, req.Msg.SettlementId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("DeleteSettlement successful", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
