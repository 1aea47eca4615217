package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/events"
	"github.com/chimt4chi/personal-budget-tracker/internal/middleware"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage/sqlite"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
)

const testPassword = "correct-horse"

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	auth      apiconnect.AuthServiceClient
	groups    apiconnect.GroupServiceClient
	expenses  apiconnect.ExpenseServiceClient
	ledger    apiconnect.LedgerServiceClient
	publisher *recordingPublisher
}

type testUser struct {
	ID    string
	Email string
	Token string
}

// setupTestServer serves every service over httptest with the same
// interceptors the server uses, backed by a fresh SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	logger := discardLogger()
	jwtManager := auth.NewJWTManager("test-secret-key-0123456789", time.Hour)
	publisher := &recordingPublisher{}

	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger))
	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(logger))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger), optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, logger), required))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, publisher, logger), required))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, logger), required))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:    apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		ledger:    apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		publisher: publisher,
	}
}

func (env *testEnv) register(t *testing.T, email, name string) testUser {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    testPassword,
	}))
	require.NoError(t, err, "Register(%s) failed", email)
	return testUser{ID: resp.Msg.User.Id, Email: resp.Msg.User.Email, Token: resp.Msg.Token}
}

// newGroup creates a group owned by owner with the other users as members.
func (env *testEnv) newGroup(t *testing.T, owner testUser, members ...testUser) string {
	t.Helper()

	resp, err := env.groups.CreateGroup(context.Background(), authed(owner, &api.CreateGroupRequest{Name: "Flat 4B"}))
	require.NoError(t, err)
	groupID := resp.Msg.Group.Id

	for _, m := range members {
		_, err := env.groups.AddMember(context.Background(), authed(owner, &api.AddMemberRequest{GroupId: groupID, UserId: m.ID}))
		require.NoError(t, err)
	}
	return groupID
}

func (env *testEnv) balances(t *testing.T, user testUser, groupID string) *api.GetGroupBalancesResponse {
	t.Helper()

	resp, err := env.groups.GetGroupBalances(context.Background(), authed(user, &api.GetGroupBalancesRequest{GroupId: groupID}))
	require.NoError(t, err)
	return resp.Msg
}

// authed wraps msg in a request carrying user's bearer token.
func authed[T any](user testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+user.Token)
	return req
}

func balanceOf(resp *api.GetGroupBalancesResponse, userID string) (float64, bool) {
	for _, b := range resp.Balances {
		if b.UserId == userID {
			return b.Balance, true
		}
	}
	return 0, false
}

func shareOf(expense *api.Expense, userID string) float64 {
	for _, s := range expense.Shares {
		if s.UserId == userID {
			return s.ShareAmount
		}
	}
	return 0
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "unexpected error: %v", err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStoreForUnitTest opens a fresh store for tests that call services
// directly instead of over HTTP.
func newStoreForUnitTest(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "unit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// withTestUser creates a user and returns a context authenticated as them.
func withTestUser(t *testing.T, store *sqlite.SQLiteStore) context.Context {
	t.Helper()

	user := models.NewUser("unit@example.com", "Unit", "not-a-real-hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return middleware.WithUser(context.Background(), user.ID, user.Email)
}
