package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	// Only this user may update or delete the settlement.
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Note is an optional description for the settlement.
	Note string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// FromName and ToName are joined display names, populated on reads only.
	FromName string
	ToName   string
}
