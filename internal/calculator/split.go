package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitExact      SplitType = "exact"
	SplitPercentage SplitType = "percentage"
	SplitShares     SplitType = "shares"
)

var (
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrNegativeSplitValue   = errors.New("split values cannot be negative")
	ErrPercentageTotal      = errors.New("percentages must add up to 100")
	ErrZeroShares           = errors.New("total shares must be greater than zero")
)

var hundred = decimal.NewFromInt(100)

// ParseSplitType validates s. An empty string means an equal split.
func ParseSplitType(s string) (SplitType, error) {
	switch t := SplitType(s); t {
	case "":
		return SplitEqual, nil
	case SplitEqual, SplitExact, SplitPercentage, SplitShares:
		return t, nil
	default:
		return "", fmt.Errorf("unknown split type %q", s)
	}
}

// SplitInput describes one participant of an expense. Which field is read
// depends on the split type: ShareAmount for exact, Percentage for
// percentage, Shares for shares. Equal splits only use UserID.
type SplitInput[M comparable] struct {
	UserID      M
	ShareAmount decimal.Decimal
	Percentage  decimal.Decimal
	Shares      decimal.Decimal
}

// CalculateShares computes the share each participant owes for an expense.
//
// Equal, percentage and shares splits are rounded down to cents and the
// leftover cents go to the first participants, so the result always adds up
// to the (cent-rounded) amount. Exact splits are returned as given; callers
// may compare their total with the amount but a mismatch is not an error.
func CalculateShares[M comparable](amount decimal.Decimal, splitType SplitType, inputs []SplitInput[M]) ([]ExpenseShare[M], error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if len(inputs) == 0 {
		return nil, ErrNoParticipants
	}

	seen := make(map[M]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.UserID]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateParticipant, in.UserID)
		}
		seen[in.UserID] = struct{}{}
	}

	amount = roundMoney(amount)
	weights := make([]decimal.Decimal, len(inputs))

	switch splitType {
	case SplitEqual:
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}

	case SplitExact:
		shares := make([]ExpenseShare[M], len(inputs))
		for i, in := range inputs {
			if in.ShareAmount.IsNegative() {
				return nil, ErrNegativeSplitValue
			}
			shares[i] = ExpenseShare[M]{UserID: in.UserID, ShareAmount: roundMoney(in.ShareAmount)}
		}
		return shares, nil

	case SplitPercentage:
		total := decimal.Zero
		for i, in := range inputs {
			if in.Percentage.IsNegative() {
				return nil, ErrNegativeSplitValue
			}
			weights[i] = in.Percentage
			total = total.Add(in.Percentage)
		}
		if !total.Equal(hundred) {
			return nil, fmt.Errorf("%w: got %s", ErrPercentageTotal, total)
		}

	case SplitShares:
		total := decimal.Zero
		for i, in := range inputs {
			if in.Shares.IsNegative() {
				return nil, ErrNegativeSplitValue
			}
			weights[i] = in.Shares
			total = total.Add(in.Shares)
		}
		if !total.IsPositive() {
			return nil, ErrZeroShares
		}

	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}

	amounts := allocate(amount, weights)
	shares := make([]ExpenseShare[M], len(inputs))
	for i, in := range inputs {
		shares[i] = ExpenseShare[M]{UserID: in.UserID, ShareAmount: amounts[i]}
	}
	return shares, nil
}

// SharesTotal sums the share amounts.
func SharesTotal[M comparable](shares []ExpenseShare[M]) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.ShareAmount)
	}
	return total
}

// allocate divides amount proportionally to weights. Each part is truncated
// to cents and the remaining cents are handed out one at a time from the
// first weight with a non-zero part onwards. weights must sum to a positive
// value.
func allocate(amount decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}

	parts := make([]decimal.Decimal, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		parts[i] = amount.Mul(w).Div(total).Truncate(CurrencyPlaces)
		allocated = allocated.Add(parts[i])
	}

	remainder := amount.Sub(allocated).Shift(CurrencyPlaces).IntPart()
	for i := 0; remainder > 0; i = (i + 1) % len(parts) {
		if weights[i].IsZero() {
			continue
		}
		parts[i] = parts[i].Add(Epsilon)
		remainder--
	}
	return parts
}
