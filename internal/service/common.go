// Package service implements the Connect handlers of the budget tracker.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/chimt4chi/personal-budget-tracker/internal/auth"
	"github.com/chimt4chi/personal-budget-tracker/internal/calculator"
	"github.com/chimt4chi/personal-budget-tracker/internal/middleware"
	"github.com/chimt4chi/personal-budget-tracker/internal/models"
	"github.com/chimt4chi/personal-budget-tracker/internal/storage"
)

var (
	errNotMember    = errors.New("you are not a member of this group")
	errNotAdmin     = errors.New("only group admins can do this")
	errNotOwner     = errors.New("only the group owner can do this")
	errNotCreator   = errors.New("only the creator can change this")
	errGroupIDEmpty = errors.New("group_id required")
)

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// storageError maps storage sentinels onto Connect codes.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toMoney converts a wire amount to a cent-rounded decimal.
func toMoney(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(calculator.CurrencyPlaces)
}

// fromMoney converts a decimal amount to its wire form.
func fromMoney(d decimal.Decimal) float64 {
	return d.Round(calculator.CurrencyPlaces).InexactFloat64()
}

// positiveMoney converts f and rejects amounts that round to zero or less.
func positiveMoney(field string, f float64) (decimal.Decimal, error) {
	amount := toMoney(f)
	if !amount.IsPositive() {
		return decimal.Zero, invalidArgument("%s must be greater than zero", field)
	}
	return amount, nil
}

// membership loads the caller's membership in groupID. A missing group is
// NotFound; an outsider gets PermissionDenied.
func membership(ctx context.Context, store storage.GroupStore, groupID, userID string) (*models.Group, *models.GroupMember, error) {
	if groupID == "" {
		return nil, nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDEmpty)
	}

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, storageError(err)
	}

	member, err := store.GetMember(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	if err != nil {
		return nil, nil, storageError(err)
	}

	return group, member, nil
}

// requireMembers checks that every user in ids belongs to groupID.
func requireMembers(ctx context.Context, store storage.GroupStore, groupID string, ids ...string) error {
	for _, id := range ids {
		_, err := store.GetMember(ctx, groupID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return invalidArgument("user %s is not a member of this group", id)
		}
		if err != nil {
			return storageError(err)
		}
	}
	return nil
}

// displayNames maps user IDs to display names. Current members come from the
// group roster; anyone else in ids, such as a former member, is looked up
// directly.
func displayNames(ctx context.Context, store storage.Store, groupID string, ids []string) (map[string]string, error) {
	members, err := store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}

	var missing []string
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return names, nil
	}

	users, err := store.GetUsersByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, u := range users {
		names[id] = u.DisplayName
	}
	return names, nil
}
