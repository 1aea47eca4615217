package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

type ping struct{}

// capture returns a handler that records the caller it sees.
func capture(userID, email *string) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*userID = GetUserID(ctx)
		*email = GetEmail(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func failing(err error) connect.UnaryFunc {
	return func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, err
	}
}

func withToken(token string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func newToken(t *testing.T, m *auth.JWTManager) string {
	t.Helper()
	token, _, err := m.Generate(&models.User{ID: "user-1", Email: "asha@example.com"})
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)
	token := newToken(t, jwtManager)
	other := auth.NewJWTManager("some-other-secret-key", time.Hour)

	t.Run("valid token", func(t *testing.T) {
		var userID, email string
		_, err := RequireAuth(jwtManager)(capture(&userID, &email))(context.Background(), withToken(token))
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, "asha@example.com", email)
	})

	rejected := map[string]string{
		"missing header": "",
		"garbage":        "not.a.jwt",
		"wrong secret":   newToken(t, other),
	}
	for name, tok := range rejected {
		t.Run(name, func(t *testing.T) {
			var userID, email string
			_, err := RequireAuth(jwtManager)(capture(&userID, &email))(context.Background(), withToken(tok))
			require.Error(t, err)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
			assert.Empty(t, userID, "handler must not run")
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)

	var userID, email string
	_, err := OptionalAuth(jwtManager)(capture(&userID, &email))(context.Background(), withToken(newToken(t, jwtManager)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	for _, tok := range []string{"", "not.a.jwt"} {
		userID, email = "unset", "unset"
		_, err := OptionalAuth(jwtManager)(capture(&userID, &email))(context.Background(), withToken(tok))
		require.NoError(t, err, "anonymous requests pass through")
		assert.Empty(t, userID)
		assert.Empty(t, email)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	interceptor := LoggingInterceptor(logger)
	ctx := WithUser(context.Background(), "user-1", "asha@example.com")

	var userID, email string
	_, err := interceptor(capture(&userID, &email))(ctx, withToken(""))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "user_id=user-1")

	buf.Reset()
	_, err = interceptor(failing(connect.NewError(connect.CodeNotFound, errors.New("group not found"))))(ctx, withToken(""))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "code=not_found")

	buf.Reset()
	_, err = interceptor(failing(errors.New("disk full")))(ctx, withToken(""))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "code=unknown")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	interceptor := m.Interceptor()
	var userID, email string
	for range 2 {
		_, err := interceptor(capture(&userID, &email))(context.Background(), withToken(""))
		require.NoError(t, err)
	}
	_, err = interceptor(failing(connect.NewError(connect.CodePermissionDenied, errors.New("no"))))(context.Background(), withToken(""))
	require.Error(t, err)

	// Requests built outside a handler carry an empty procedure.
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("", "permission_denied")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice on one registry fails")
}
