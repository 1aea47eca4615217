package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = packagePrefix + "AuthService"

const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
	AuthServiceSearchUsersProcedure    = "/" + AuthServiceName + "/SearchUsers"
)

// AuthServiceClient is a client for the budget.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	SearchUsers(context.Context, *connect.Request[api.SearchUsersRequest]) (*connect.Response[api.SearchUsersResponse], error)
}

// NewAuthServiceClient constructs a client for the budget.v1.AuthService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &authServiceClient{
		register:       newClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:          newClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		logout:         newClient[api.LogoutRequest, api.LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, opts),
		getCurrentUser: newClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
		searchUsers:    newClient[api.SearchUsersRequest, api.SearchUsersResponse](httpClient, baseURL, AuthServiceSearchUsersProcedure, opts),
	}
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	logout         *connect.Client[api.LogoutRequest, api.LogoutResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	searchUsers    *connect.Client[api.SearchUsersRequest, api.SearchUsersResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) SearchUsers(ctx context.Context, req *connect.Request[api.SearchUsersRequest]) (*connect.Response[api.SearchUsersResponse], error) {
	return c.searchUsers.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of budget.v1.AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	SearchUsers(context.Context, *connect.Request[api.SearchUsersRequest]) (*connect.Response[api.SearchUsersResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mount(AuthServiceName,
		unary(AuthServiceRegisterProcedure, svc.Register, opts),
		unary(AuthServiceLoginProcedure, svc.Login, opts),
		unary(AuthServiceLogoutProcedure, svc.Logout, opts),
		unary(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
		unary(AuthServiceSearchUsersProcedure, svc.SearchUsers, opts),
	)
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return nil, unimplemented(AuthServiceRegisterProcedure)
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, unimplemented(AuthServiceLoginProcedure)
}

func (UnimplementedAuthServiceHandler) Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	return nil, unimplemented(AuthServiceLogoutProcedure)
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceGetCurrentUserProcedure)
}

func (UnimplementedAuthServiceHandler) SearchUsers(context.Context, *connect.Request[api.SearchUsersRequest]) (*connect.Response[api.SearchUsersResponse], error) {
	return nil, unimplemented(AuthServiceSearchUsersProcedure)
}
