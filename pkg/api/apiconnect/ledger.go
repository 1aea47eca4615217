package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = packagePrefix + "LedgerService"

const (
	LedgerServiceCreateCategoryProcedure    = "/" + LedgerServiceName + "/CreateCategory"
	LedgerServiceListCategoriesProcedure    = "/" + LedgerServiceName + "/ListCategories"
	LedgerServiceCreateTransactionProcedure = "/" + LedgerServiceName + "/CreateTransaction"
	LedgerServiceListTransactionsProcedure  = "/" + LedgerServiceName + "/ListTransactions"
	LedgerServiceUpdateTransactionProcedure = "/" + LedgerServiceName + "/UpdateTransaction"
	LedgerServiceDeleteTransactionProcedure = "/" + LedgerServiceName + "/DeleteTransaction"
	LedgerServiceCreateBudgetProcedure      = "/" + LedgerServiceName + "/CreateBudget"
	LedgerServiceListBudgetsProcedure       = "/" + LedgerServiceName + "/ListBudgets"
	LedgerServiceGetBudgetProcedure         = "/" + LedgerServiceName + "/GetBudget"
	LedgerServiceUpdateBudgetProcedure      = "/" + LedgerServiceName + "/UpdateBudget"
	LedgerServiceDeleteBudgetProcedure      = "/" + LedgerServiceName + "/DeleteBudget"
	LedgerServiceGetBudgetProgressProcedure = "/" + LedgerServiceName + "/GetBudgetProgress"
	LedgerServiceGetMonthlySummaryProcedure = "/" + LedgerServiceName + "/GetMonthlySummary"
)

// LedgerServiceClient is a client for the budget.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	CreateBudget(context.Context, *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error)
	ListBudgets(context.Context, *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error)
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error)
	UpdateBudget(context.Context, *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error)
	GetBudgetProgress(context.Context, *connect.Request[api.GetBudgetProgressRequest]) (*connect.Response[api.GetBudgetProgressResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error)
}

// NewLedgerServiceClient constructs a client for the budget.v1.LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &ledgerServiceClient{
		createCategory:    newClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL, LedgerServiceCreateCategoryProcedure, opts),
		listCategories:    newClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL, LedgerServiceListCategoriesProcedure, opts),
		createTransaction: newClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL, LedgerServiceCreateTransactionProcedure, opts),
		listTransactions:  newClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL, LedgerServiceListTransactionsProcedure, opts),
		updateTransaction: newClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL, LedgerServiceUpdateTransactionProcedure, opts),
		deleteTransaction: newClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL, LedgerServiceDeleteTransactionProcedure, opts),
		createBudget:      newClient[api.CreateBudgetRequest, api.CreateBudgetResponse](httpClient, baseURL, LedgerServiceCreateBudgetProcedure, opts),
		listBudgets:       newClient[api.ListBudgetsRequest, api.ListBudgetsResponse](httpClient, baseURL, LedgerServiceListBudgetsProcedure, opts),
		getBudget:         newClient[api.GetBudgetRequest, api.GetBudgetResponse](httpClient, baseURL, LedgerServiceGetBudgetProcedure, opts),
		updateBudget:      newClient[api.UpdateBudgetRequest, api.UpdateBudgetResponse](httpClient, baseURL, LedgerServiceUpdateBudgetProcedure, opts),
		deleteBudget:      newClient[api.DeleteBudgetRequest, api.DeleteBudgetResponse](httpClient, baseURL, LedgerServiceDeleteBudgetProcedure, opts),
		getBudgetProgress: newClient[api.GetBudgetProgressRequest, api.GetBudgetProgressResponse](httpClient, baseURL, LedgerServiceGetBudgetProgressProcedure, opts),
		getMonthlySummary: newClient[api.GetMonthlySummaryRequest, api.GetMonthlySummaryResponse](httpClient, baseURL, LedgerServiceGetMonthlySummaryProcedure, opts),
	}
}

type ledgerServiceClient struct {
	createCategory    *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	listCategories    *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	createBudget      *connect.Client[api.CreateBudgetRequest, api.CreateBudgetResponse]
	listBudgets       *connect.Client[api.ListBudgetsRequest, api.ListBudgetsResponse]
	getBudget         *connect.Client[api.GetBudgetRequest, api.GetBudgetResponse]
	updateBudget      *connect.Client[api.UpdateBudgetRequest, api.UpdateBudgetResponse]
	deleteBudget      *connect.Client[api.DeleteBudgetRequest, api.DeleteBudgetResponse]
	getBudgetProgress *connect.Client[api.GetBudgetProgressRequest, api.GetBudgetProgressResponse]
	getMonthlySummary *connect.Client[api.GetMonthlySummaryRequest, api.GetMonthlySummaryResponse]
}

func (c *ledgerServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateBudget(ctx context.Context, req *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error) {
	return c.createBudget.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListBudgets(ctx context.Context, req *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	return c.listBudgets.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBudget(ctx context.Context, req *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error) {
	return c.getBudget.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateBudget(ctx context.Context, req *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error) {
	return c.updateBudget.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteBudget(ctx context.Context, req *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error) {
	return c.deleteBudget.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBudgetProgress(ctx context.Context, req *connect.Request[api.GetBudgetProgressRequest]) (*connect.Response[api.GetBudgetProgressResponse], error) {
	return c.getBudgetProgress.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	return c.getMonthlySummary.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of budget.v1.LedgerService.
type LedgerServiceHandler interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	CreateBudget(context.Context, *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error)
	ListBudgets(context.Context, *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error)
	GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error)
	UpdateBudget(context.Context, *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error)
	DeleteBudget(context.Context, *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error)
	GetBudgetProgress(context.Context, *connect.Request[api.GetBudgetProgressRequest]) (*connect.Response[api.GetBudgetProgressResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error)
}

// NewLedgerServiceHandler returns the mount path and HTTP handler for svc.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mount(LedgerServiceName,
		unary(LedgerServiceCreateCategoryProcedure, svc.CreateCategory, opts),
		unary(LedgerServiceListCategoriesProcedure, svc.ListCategories, opts),
		unary(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts),
		unary(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts),
		unary(LedgerServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts),
		unary(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts),
		unary(LedgerServiceCreateBudgetProcedure, svc.CreateBudget, opts),
		unary(LedgerServiceListBudgetsProcedure, svc.ListBudgets, opts),
		unary(LedgerServiceGetBudgetProcedure, svc.GetBudget, opts),
		unary(LedgerServiceUpdateBudgetProcedure, svc.UpdateBudget, opts),
		unary(LedgerServiceDeleteBudgetProcedure, svc.DeleteBudget, opts),
		unary(LedgerServiceGetBudgetProgressProcedure, svc.GetBudgetProgress, opts),
		unary(LedgerServiceGetMonthlySummaryProcedure, svc.GetMonthlySummary, opts),
	)
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return nil, unimplemented(LedgerServiceCreateCategoryProcedure)
}

func (UnimplementedLedgerServiceHandler) ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return nil, unimplemented(LedgerServiceListCategoriesProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceCreateTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return nil, unimplemented(LedgerServiceListTransactionsProcedure)
}

func (UnimplementedLedgerServiceHandler) UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceUpdateTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteTransactionProcedure)
}

func (UnimplementedLedgerServiceHandler) CreateBudget(context.Context, *connect.Request[api.CreateBudgetRequest]) (*connect.Response[api.CreateBudgetResponse], error) {
	return nil, unimplemented(LedgerServiceCreateBudgetProcedure)
}

func (UnimplementedLedgerServiceHandler) ListBudgets(context.Context, *connect.Request[api.ListBudgetsRequest]) (*connect.Response[api.ListBudgetsResponse], error) {
	return nil, unimplemented(LedgerServiceListBudgetsProcedure)
}

func (UnimplementedLedgerServiceHandler) GetBudget(context.Context, *connect.Request[api.GetBudgetRequest]) (*connect.Response[api.GetBudgetResponse], error) {
	return nil, unimplemented(LedgerServiceGetBudgetProcedure)
}

func (UnimplementedLedgerServiceHandler) UpdateBudget(context.Context, *connect.Request[api.UpdateBudgetRequest]) (*connect.Response[api.UpdateBudgetResponse], error) {
	return nil, unimplemented(LedgerServiceUpdateBudgetProcedure)
}

func (UnimplementedLedgerServiceHandler) DeleteBudget(context.Context, *connect.Request[api.DeleteBudgetRequest]) (*connect.Response[api.DeleteBudgetResponse], error) {
	return nil, unimplemented(LedgerServiceDeleteBudgetProcedure)
}

func (UnimplementedLedgerServiceHandler) GetBudgetProgress(context.Context, *connect.Request[api.GetBudgetProgressRequest]) (*connect.Response[api.GetBudgetProgressResponse], error) {
	return nil, unimplemented(LedgerServiceGetBudgetProgressProcedure)
}

func (UnimplementedLedgerServiceHandler) GetMonthlySummary(context.Context, *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	return nil, unimplemented(LedgerServiceGetMonthlySummaryProcedure)
}
