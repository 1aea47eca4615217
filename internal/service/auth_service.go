package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api"
	"github.com/chimt4chi/personal-budget-tracker/pkg/api/apiconnect"
)

const (
	// minSearchQuery is the shortest query SearchUsers runs.
	minSearchQuery = 2
	searchLimit    = 10
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		Id:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		CurrencyCode: user.CurrencyCode,
		TimeZone:     user.TimeZone,
		CreatedAt:    user.CreatedAt,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:        req.Msg.Email,
		DisplayName:  req.Msg.DisplayName,
		Credential:   req.Msg.Password,
		CurrencyCode: req.Msg.CurrencyCode,
		TimeZone:     req.Msg.TimeZone,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrMissingName):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, expiresAt, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		User:      toAPIUser(user),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login failed", "email", req.Msg.Email)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	if err != nil {
		s.logger.Error("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, expiresAt, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:      toAPIUser(user),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// Logout is a no-op: tokens are stateless and clients discard them.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	s.logger.Info("Logout request")
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetCurrentUser request", "user_id", userID)

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		// Valid token for a deleted account.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	if err != nil {
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// SearchUsers finds users by name or email so they can be added to groups.
// Queries shorter than two characters return nothing.
func (s *AuthService) SearchUsers(ctx context.Context, req *connect.Request[api.SearchUsersRequest]) (*connect.Response[api.SearchUsersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Msg.Query)
	resp := &api.SearchUsersResponse{Users: []*api.User{}}
	if len([]rune(query)) < minSearchQuery {
		return connect.NewResponse(resp), nil
	}

	users, err := s.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		s.logger.Error("SearchUsers failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	for _, u := range users {
		resp.Users = append(resp.Users, &api.User{Id: u.ID, Email: u.Email, DisplayName: u.DisplayName})
	}

	s.logger.Info("SearchUsers successful", "user_id", userID, "count", len(resp.Users))
	return connect.NewResponse(resp), nil
}
