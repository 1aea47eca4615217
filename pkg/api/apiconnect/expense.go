package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = packagePrefix + "ExpenseService"

const (
	ExpenseServiceCreateExpenseProcedure    = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceListExpensesProcedure     = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure    = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure    = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceCreateSettlementProcedure = "/" + ExpenseServiceName + "/CreateSettlement"
	ExpenseServiceListSettlementsProcedure  = "/" + ExpenseServiceName + "/ListSettlements"
	ExpenseServiceUpdateSettlementProcedure = "/" + ExpenseServiceName + "/UpdateSettlement"
	ExpenseServiceDeleteSettlementProcedure = "/" + ExpenseServiceName + "/DeleteSettlement"
)

// ExpenseServiceClient is a client for the budget.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	UpdateSettlement(context.Context, *connect.Request[api.UpdateSettlementRequest]) (*connect.Response[api.UpdateSettlementResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewExpenseServiceClient constructs a client for the budget.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &expenseServiceClient{
		createExpense:    newClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL, ExpenseServiceCreateExpenseProcedure, opts),
		listExpenses:     newClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL, ExpenseServiceListExpensesProcedure, opts),
		updateExpense:    newClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL, ExpenseServiceUpdateExpenseProcedure, opts),
		deleteExpense:    newClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL, ExpenseServiceDeleteExpenseProcedure, opts),
		createSettlement: newClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL, ExpenseServiceCreateSettlementProcedure, opts),
		listSettlements:  newClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL, ExpenseServiceListSettlementsProcedure, opts),
		updateSettlement: newClient[api.UpdateSettlementRequest, api.UpdateSettlementResponse](httpClient, baseURL, ExpenseServiceUpdateSettlementProcedure, opts),
		deleteSettlement: newClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL, ExpenseServiceDeleteSettlementProcedure, opts),
	}
}

type expenseServiceClient struct {
	createExpense    *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses     *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	updateExpense    *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense    *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	createSettlement *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	listSettlements  *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	updateSettlement *connect.Client[api.UpdateSettlementRequest, api.UpdateSettlementResponse]
	deleteSettlement *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateSettlement(ctx context.Context, req *connect.Request[api.UpdateSettlementRequest]) (*connect.Response[api.UpdateSettlementResponse], error) {
	return c.updateSettlement.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the server side of budget.v1.ExpenseService.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	UpdateSettlement(context.Context, *connect.Request[api.UpdateSettlementRequest]) (*connect.Response[api.UpdateSettlementResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewExpenseServiceHandler returns the mount path and HTTP handler for svc.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mount(ExpenseServiceName,
		unary(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts),
		unary(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts),
		unary(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts),
		unary(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts),
		unary(ExpenseServiceCreateSettlementProcedure, svc.CreateSettlement, opts),
		unary(ExpenseServiceListSettlementsProcedure, svc.ListSettlements, opts),
		unary(ExpenseServiceUpdateSettlementProcedure, svc.UpdateSettlement, opts),
		unary(ExpenseServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts),
	)
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceCreateExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, unimplemented(ExpenseServiceListExpensesProcedure)
}

func (UnimplementedExpenseServiceHandler) UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceUpdateExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceDeleteExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return nil, unimplemented(ExpenseServiceCreateSettlementProcedure)
}

func (UnimplementedExpenseServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, unimplemented(ExpenseServiceListSettlementsProcedure)
}

func (UnimplementedExpenseServiceHandler) UpdateSettlement(context.Context, *connect.Request[api.UpdateSettlementRequest]) (*connect.Response[api.UpdateSettlementResponse], error) {
	return nil, unimplemented(ExpenseServiceUpdateSettlementProcedure)
}

func (UnimplementedExpenseServiceHandler) DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return nil, unimplemented(ExpenseServiceDeleteSettlementProcedure)
}
