package service

import (
	"context"
	"encoding/json"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimt4chi/personal-budget-tracker/internal/events"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

type expenseFixture struct {
	env     *testEnv
	alice   testUser
	bob     testUser
	carol   testUser
	groupID string
}

func newExpenseFixture(t *testing.T) *expenseFixture {
	env := setupTestServer(t)
	f := &expenseFixture{
		env:   env,
		alice: env.register(t, "alice@example.com", "Alice"),
		bob:   env.register(t, "bob@example.com", "Bob"),
		carol: env.register(t, "carol@example.com", "Carol"),
	}
	f.groupID = env.newGroup(t, f.alice, f.bob, f.carol)
	return f
}

func TestCreateExpenseSplits(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateExpenseRequest
		want map[string]float64
	}{
		{
			name: "equal over all members",
			req:  &api.CreateExpenseRequest{Amount: 100, Description: "Internet"},
			want: map[string]float64{f.alice.ID: 33.34, f.bob.ID: 33.33, f.carol.ID: 33.33},
		},
		{
			name: "equal over listed participants",
			req: &api.CreateExpenseRequest{Amount: 45, Description: "Movie", SplitType: "equal", Splits: []*api.ExpenseSplit{
				{UserId: f.alice.ID}, {UserId: f.bob.ID},
			}},
			want: map[string]float64{f.alice.ID: 22.5, f.bob.ID: 22.5},
		},
		{
			name: "exact",
			req: &api.CreateExpenseRequest{Amount: 30, Description: "Lunch", SplitType: "exact", Splits: []*api.ExpenseSplit{
				{UserId: f.alice.ID, ShareAmount: 10}, {UserId: f.carol.ID, ShareAmount: 20},
			}},
			want: map[string]float64{f.alice.ID: 10, f.carol.ID: 20},
		},
		{
			name: "exact that does not add up is kept",
			req: &api.CreateExpenseRequest{Amount: 30, Description: "Tea", SplitType: "exact", Splits: []*api.ExpenseSplit{
				{UserId: f.alice.ID, ShareAmount: 10}, {UserId: f.bob.ID, ShareAmount: 10},
			}},
			want: map[string]float64{f.alice.ID: 10, f.bob.ID: 10},
		},
		{
			name: "percentage",
			req: &api.CreateExpenseRequest{Amount: 200, Description: "Rent top-up", SplitType: "percentage", Splits: []*api.ExpenseSplit{
				{UserId: f.alice.ID, Percentage: 50}, {UserId: f.bob.ID, Percentage: 30}, {UserId: f.carol.ID, Percentage: 20},
			}},
			want: map[string]float64{f.alice.ID: 100, f.bob.ID: 60, f.carol.ID: 40},
		},
		{
			name: "shares",
			req: &api.CreateExpenseRequest{Amount: 90, Description: "Fuel", SplitType: "shares", Splits: []*api.ExpenseSplit{
				{UserId: f.bob.ID, Shares: 1}, {UserId: f.carol.ID, Shares: 2},
			}},
			want: map[string]float64{f.bob.ID: 30, f.carol.ID: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.GroupId = f.groupID
			resp, err := f.env.expenses.CreateExpense(ctx, authed(f.alice, tt.req))
			require.NoError(t, err)

			expense := resp.Msg.Expense
			assert.NotEmpty(t, expense.Id)
			assert.Equal(t, f.alice.ID, expense.PaidBy, "payer defaults to the caller")
			assert.Equal(t, "Alice", expense.PaidByName)
			assert.NotEmpty(t, expense.TxnDate)
			require.Len(t, expense.Shares, len(tt.want))
			for userID, amount := range tt.want {
				assert.InDelta(t, amount, shareOf(expense, userID), 0.001, "share of %s", userID)
			}
		})
	}
}

func TestCreateExpenseStoresSplitInputs(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	resp, err := f.env.expenses.CreateExpense(ctx, authed(f.bob, &api.CreateExpenseRequest{
		GroupId:     f.groupID,
		PaidBy:      f.carol.ID,
		Amount:      120,
		Description: "Electricity",
		SplitType:   "percentage",
		TxnDate:     "2026-03-14",
		CategoryId:  "00000000-0000-4000-8000-000000000006",
		Splits: []*api.ExpenseSplit{
			{UserId: f.alice.ID, Percentage: 25}, {UserId: f.carol.ID, Percentage: 75},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, resp.Msg.Expense.CreatedBy)
	assert.Equal(t, f.carol.ID, resp.Msg.Expense.PaidBy)
	assert.Equal(t, "2026-03-14", resp.Msg.Expense.TxnDate)

	list, err := f.env.expenses.ListExpenses(ctx, authed(f.alice, &api.ListExpensesRequest{GroupId: f.groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)

	expense := list.Msg.Expenses[0]
	assert.Equal(t, "Carol", expense.PaidByName)
	assert.Equal(t, "percentage", expense.SplitType)
	require.Len(t, expense.Shares, 2)
	assert.Equal(t, "Alice", expense.Shares[0].DisplayName)
	require.NotNil(t, expense.Shares[0].Percentage)
	assert.InDelta(t, 25.0, *expense.Shares[0].Percentage, 0.001)
	assert.Nil(t, expense.Shares[0].Shares)
	assert.InDelta(t, 30.0, expense.Shares[0].ShareAmount, 0.001)
	assert.InDelta(t, 90.0, expense.Shares[1].ShareAmount, 0.001)
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	outsider := f.env.register(t, "dev@example.com", "Dev")

	tests := []struct {
		name   string
		caller testUser
		req    *api.CreateExpenseRequest
		code   connect.Code
	}{
		{"zero amount", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 0, Description: "x"}, connect.CodeInvalidArgument},
		{"negative amount", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: -5, Description: "x"}, connect.CodeInvalidArgument},
		{"missing description", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5}, connect.CodeInvalidArgument},
		{"unknown split type", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", SplitType: "weighted"}, connect.CodeInvalidArgument},
		{"bad date", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", TxnDate: "14/03/2026"}, connect.CodeInvalidArgument},
		{"unknown category", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", CategoryId: "nope"}, connect.CodeInvalidArgument},
		{"payer outside group", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", PaidBy: outsider.ID}, connect.CodeInvalidArgument},
		{"participant outside group", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", Splits: []*api.ExpenseSplit{
			{UserId: f.alice.ID}, {UserId: outsider.ID},
		}}, connect.CodeInvalidArgument},
		{"duplicate participant", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", Splits: []*api.ExpenseSplit{
			{UserId: f.alice.ID}, {UserId: f.alice.ID},
		}}, connect.CodeInvalidArgument},
		{"percentages not 100", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", SplitType: "percentage", Splits: []*api.ExpenseSplit{
			{UserId: f.alice.ID, Percentage: 50}, {UserId: f.bob.ID, Percentage: 40},
		}}, connect.CodeInvalidArgument},
		{"zero shares", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", SplitType: "shares", Splits: []*api.ExpenseSplit{
			{UserId: f.alice.ID}, {UserId: f.bob.ID},
		}}, connect.CodeInvalidArgument},
		{"exact without splits", f.alice, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x", SplitType: "exact"}, connect.CodeInvalidArgument},
		{"caller outside group", outsider, &api.CreateExpenseRequest{GroupId: f.groupID, Amount: 5, Description: "x"}, connect.CodePermissionDenied},
		{"unknown group", f.alice, &api.CreateExpenseRequest{GroupId: "missing", Amount: 5, Description: "x"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.env.expenses.CreateExpense(ctx, authed(tt.caller, tt.req))
			requireCode(t, tt.code, err)
		})
	}

	assert.Empty(t, f.env.publisher.ofType(events.TypeExpenseCreated), "failed creates publish nothing")
}

func TestCreateExpensePublishesEvent(t *testing.T) {
	f := newExpenseFixture(t)

	resp, err := f.env.expenses.CreateExpense(context.Background(), authed(f.alice, &api.CreateExpenseRequest{
		GroupId: f.groupID, Amount: 12.5, Description: "Chai",
	}))
	require.NoError(t, err)

	published := f.env.publisher.ofType(events.TypeExpenseCreated)
	require.Len(t, published, 1)
	assert.Equal(t, f.groupID, published[0].GroupID)
	assert.Equal(t, f.alice.ID, published[0].ActorID)

	var payload events.ExpenseCreated
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, resp.Msg.Expense.Id, payload.ExpenseID)
	assert.Equal(t, "12.50", payload.Amount)
	assert.Equal(t, "equal", payload.SplitType)
}

func TestUpdateExpenseRescalesShares(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	create := func(req *api.CreateExpenseRequest) *api.Expense {
		req.GroupId = f.groupID
		resp, err := f.env.expenses.CreateExpense(ctx, authed(f.alice, req))
		require.NoError(t, err)
		return resp.Msg.Expense
	}

	equal := create(&api.CreateExpenseRequest{Amount: 90, Description: "Groceries"})
	exact := create(&api.CreateExpenseRequest{Amount: 30, Description: "Lunch", SplitType: "exact", Splits: []*api.ExpenseSplit{
		{UserId: f.bob.ID, ShareAmount: 10}, {UserId: f.carol.ID, ShareAmount: 20},
	}})
	pct := create(&api.CreateExpenseRequest{Amount: 100, Description: "Gas", SplitType: "percentage", Splits: []*api.ExpenseSplit{
		{UserId: f.alice.ID, Percentage: 60}, {UserId: f.bob.ID, Percentage: 40},
	}})

	resp, err := f.env.expenses.UpdateExpense(ctx, authed(f.alice, &api.UpdateExpenseRequest{ExpenseId: equal.Id, Amount: 120, Description: "Groceries + milk"}))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, resp.Msg.Expense.Amount, 0.001)
	assert.Equal(t, "Groceries + milk", resp.Msg.Expense.Description)
	for _, s := range resp.Msg.Expense.Shares {
		assert.InDelta(t, 40.0, s.ShareAmount, 0.001)
	}

	resp, err = f.env.expenses.UpdateExpense(ctx, authed(f.alice, &api.UpdateExpenseRequest{ExpenseId: exact.Id, Amount: 60}))
	require.NoError(t, err)
	assert.Equal(t, "Lunch", resp.Msg.Expense.Description, "empty description keeps the old one")
	assert.Equal(t, "exact", resp.Msg.Expense.SplitType)
	assert.InDelta(t, 20.0, shareOf(resp.Msg.Expense, f.bob.ID), 0.001)
	assert.InDelta(t, 40.0, shareOf(resp.Msg.Expense, f.carol.ID), 0.001)

	resp, err = f.env.expenses.UpdateExpense(ctx, authed(f.alice, &api.UpdateExpenseRequest{ExpenseId: pct.Id, Amount: 50}))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, shareOf(resp.Msg.Expense, f.alice.ID), 0.001)
	assert.InDelta(t, 20.0, shareOf(resp.Msg.Expense, f.bob.ID), 0.001)

	got := f.env.balances(t, f.bob, f.groupID)
	a, _ := balanceOf(got, f.alice.ID)
	// paid 120+60+50, owes 40+30
	assert.InDelta(t, 160.0, a, 0.001)
}

func TestUpdateAndDeleteExpensePermissions(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	resp, err := f.env.expenses.CreateExpense(ctx, authed(f.alice, &api.CreateExpenseRequest{
		GroupId: f.groupID, PaidBy: f.bob.ID, Amount: 60, Description: "Pizza",
	}))
	require.NoError(t, err)
	expenseID := resp.Msg.Expense.Id

	// Only the creator may edit, not the payer.
	_, err = f.env.expenses.UpdateExpense(ctx, authed(f.bob, &api.UpdateExpenseRequest{ExpenseId: expenseID, Amount: 70}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = f.env.expenses.UpdateExpense(ctx, authed(f.alice, &api.UpdateExpenseRequest{ExpenseId: expenseID, Amount: 0}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = f.env.expenses.UpdateExpense(ctx, authed(f.alice, &api.UpdateExpenseRequest{ExpenseId: "missing", Amount: 10}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = f.env.expenses.DeleteExpense(ctx, authed(f.carol, &api.DeleteExpenseRequest{ExpenseId: expenseID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = f.env.expenses.DeleteExpense(ctx, authed(f.alice, &api.DeleteExpenseRequest{ExpenseId: expenseID}))
	require.NoError(t, err)

	list, err := f.env.expenses.ListExpenses(ctx, authed(f.alice, &api.ListExpensesRequest{GroupId: f.groupID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses)

	got := f.env.balances(t, f.alice, f.groupID)
	assert.Empty(t, got.Balances)
}

func TestSettlements(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	first, err := f.env.expenses.CreateSettlement(ctx, authed(f.bob, &api.CreateSettlementRequest{
		GroupId: f.groupID, ToUserId: f.alice.ID, Amount: 25, Note: "UPI",
	}))
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, first.Msg.Settlement.FromUserId)
	assert.Equal(t, "Bob", first.Msg.Settlement.FromName)
	assert.Equal(t, "Alice", first.Msg.Settlement.ToName)
	assert.Equal(t, "UPI", first.Msg.Settlement.Note)

	// Recorded on Carol's behalf by Alice.
	second, err := f.env.expenses.CreateSettlement(ctx, authed(f.alice, &api.CreateSettlementRequest{
		GroupId: f.groupID, FromUserId: f.carol.ID, ToUserId: f.bob.ID, Amount: 5,
	}))
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, second.Msg.Settlement.CreatedBy)

	published := f.env.publisher.ofType(events.TypeSettlementRecorded)
	require.Len(t, published, 2)
	var payload events.SettlementRecorded
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, first.Msg.Settlement.Id, payload.SettlementID)
	assert.Equal(t, "25.00", payload.Amount)

	list, err := f.env.expenses.ListSettlements(ctx, authed(f.carol, &api.ListSettlementsRequest{GroupId: f.groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Settlements, 2)
	assert.Equal(t, second.Msg.Settlement.Id, list.Msg.Settlements[0].Id, "newest first")

	got := f.env.balances(t, f.alice, f.groupID)
	a, _ := balanceOf(got, f.alice.ID)
	b, _ := balanceOf(got, f.bob.ID)
	c, _ := balanceOf(got, f.carol.ID)
	assert.InDelta(t, -25.0, a, 0.001)
	assert.InDelta(t, 20.0, b, 0.001)
	assert.InDelta(t, 5.0, c, 0.001)
}

func TestSettlementValidation(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()
	outsider := f.env.register(t, "dev@example.com", "Dev")

	tests := []struct {
		name string
		req  *api.CreateSettlementRequest
		code connect.Code
	}{
		{"zero amount", &api.CreateSettlementRequest{GroupId: f.groupID, ToUserId: f.bob.ID}, connect.CodeInvalidArgument},
		{"negative amount", &api.CreateSettlementRequest{GroupId: f.groupID, ToUserId: f.bob.ID, Amount: -1}, connect.CodeInvalidArgument},
		{"sub-cent amount", &api.CreateSettlementRequest{GroupId: f.groupID, ToUserId: f.bob.ID, Amount: 0.001}, connect.CodeInvalidArgument},
		{"to self", &api.CreateSettlementRequest{GroupId: f.groupID, ToUserId: f.alice.ID, Amount: 10}, connect.CodeInvalidArgument},
		{"missing recipient", &api.CreateSettlementRequest{GroupId: f.groupID, Amount: 10}, connect.CodeInvalidArgument},
		{"recipient outside group", &api.CreateSettlementRequest{GroupId: f.groupID, ToUserId: outsider.ID, Amount: 10}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.env.expenses.CreateSettlement(ctx, authed(f.alice, tt.req))
			requireCode(t, tt.code, err)
		})
	}

	_, err := f.env.expenses.CreateSettlement(ctx, authed(outsider, &api.CreateSettlementRequest{
		GroupId: f.groupID, ToUserId: f.alice.ID, Amount: 10,
	}))
	requireCode(t, connect.CodePermissionDenied, err)
}

func TestUpdateAndDeleteSettlement(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	created, err := f.env.expenses.CreateSettlement(ctx, authed(f.bob, &api.CreateSettlementRequest{
		GroupId: f.groupID, ToUserId: f.alice.ID, Amount: 25,
	}))
	require.NoError(t, err)
	id := created.Msg.Settlement.Id

	_, err = f.env.expenses.UpdateSettlement(ctx, authed(f.alice, &api.UpdateSettlementRequest{SettlementId: id, Amount: 30}))
	requireCode(t, connect.CodePermissionDenied, err)

	updated, err := f.env.expenses.UpdateSettlement(ctx, authed(f.bob, &api.UpdateSettlementRequest{SettlementId: id, Amount: 30, Note: "cash"}))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, updated.Msg.Settlement.Amount, 0.001)
	assert.Equal(t, "cash", updated.Msg.Settlement.Note)

	b, _ := balanceOf(f.env.balances(t, f.bob, f.groupID), f.bob.ID)
	assert.InDelta(t, 30.0, b, 0.001)

	_, err = f.env.expenses.DeleteSettlement(ctx, authed(f.alice, &api.DeleteSettlementRequest{SettlementId: id}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = f.env.expenses.DeleteSettlement(ctx, authed(f.bob, &api.DeleteSettlementRequest{SettlementId: id}))
	require.NoError(t, err)

	_, err = f.env.expenses.DeleteSettlement(ctx, authed(f.bob, &api.DeleteSettlementRequest{SettlementId: id}))
	requireCode(t, connect.CodeNotFound, err)
}
