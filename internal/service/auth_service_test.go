package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "  Asha@Example.com ",
		DisplayName: "Asha",
		Password:    testPassword,
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.NotZero(t, reg.Msg.ExpiresAt)
	assert.Equal(t, "asha@example.com", reg.Msg.User.Email)
	assert.Equal(t, "INR", reg.Msg.User.CurrencyCode)

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "ASHA@example.com",
		Password: testPassword,
	}))
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.User.Id, login.Msg.User.Id)
	assert.NotEmpty(t, login.Msg.Token)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "asha@example.com", Password: "wrong-password"}))
	requireCode(t, connect.CodeUnauthenticated, err)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: testPassword}))
	requireCode(t, connect.CodeUnauthenticated, err)
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "ravi@example.com", "Ravi")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		code connect.Code
	}{
		{"duplicate email", &api.RegisterRequest{Email: "RAVI@example.com", DisplayName: "Ravi 2", Password: testPassword}, connect.CodeAlreadyExists},
		{"short password", &api.RegisterRequest{Email: "a@example.com", DisplayName: "A", Password: "short"}, connect.CodeInvalidArgument},
		{"bad email", &api.RegisterRequest{Email: "not-an-email", DisplayName: "B", Password: testPassword}, connect.CodeInvalidArgument},
		{"missing name", &api.RegisterRequest{Email: "c@example.com", DisplayName: "  ", Password: testPassword}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
			requireCode(t, tt.code, err)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	user := env.register(t, "meera@example.com", "Meera")

	resp, err := env.auth.GetCurrentUser(ctx, authed(user, &api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.Msg.User.Id)
	assert.Equal(t, "Meera", resp.Msg.User.DisplayName)

	_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	requireCode(t, connect.CodeUnauthenticated, err)

	forged := testUser{Token: "not.a.jwt"}
	_, err = env.auth.GetCurrentUser(ctx, authed(forged, &api.GetCurrentUserRequest{}))
	requireCode(t, connect.CodeUnauthenticated, err)

	_, err = env.auth.Logout(ctx, authed(user, &api.LogoutRequest{}))
	require.NoError(t, err)
}

func TestSearchUsers(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	caller := env.register(t, "kiran@example.com", "Kiran")
	env.register(t, "priya@example.com", "Priya Nair")
	env.register(t, "pranav@example.com", "Pranav")

	resp, err := env.auth.SearchUsers(ctx, authed(caller, &api.SearchUsersRequest{Query: "pri"}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Users, 1)
	assert.Equal(t, "Priya Nair", resp.Msg.Users[0].DisplayName)

	resp, err = env.auth.SearchUsers(ctx, authed(caller, &api.SearchUsersRequest{Query: "p"}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.Users, "single-character queries return nothing")

	_, err = env.auth.SearchUsers(ctx, connect.NewRequest(&api.SearchUsersRequest{Query: "pri"}))
	requireCode(t, connect.CodeUnauthenticated, err)
}
