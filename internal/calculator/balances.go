package calculator

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of fractional digits kept for money values.
const CurrencyPlaces = 2

// Epsilon is one minor currency unit. Balances and transfers smaller than
// this are treated as zero.
var Epsilon = decimal.New(1, -CurrencyPlaces)

// ExpenseRecord is money one member fronted on behalf of the group.
type ExpenseRecord[M comparable] struct {
	PaidBy M
	Amount decimal.Decimal
}

// ExpenseShare is the portion of an expense attributed to one member.
type ExpenseShare[M comparable] struct {
	UserID      M
	ShareAmount decimal.Decimal
}

// SettlementRecord is a payment already made from one member to another.
type SettlementRecord[M comparable] struct {
	FromUserID M
	ToUserID   M
	Amount     decimal.Decimal
}

// Balance is a member's net position in a group.
type Balance[M comparable] struct {
	UserID M

	// Balance is positive when the member is owed money and negative when
	// the member owes money.
	Balance decimal.Decimal

	Paid       decimal.Decimal // expenses paid for the group
	Owed       decimal.Decimal // shares attributed to the member
	SettledOut decimal.Decimal // settlements paid to others
	SettledIn  decimal.Decimal // settlements received from others
}

// AggregateBalances reduces the three fact streams of a group to one signed
// balance per member:
//
//	balance = paid - shares owed + settlements paid - settlements received
//
// Paying a settlement reduces what a member owes, so it raises their balance;
// receiving one lowers the balance of the member who was owed.
//
// Every member that appears in any stream gets an entry, even when the net
// result is zero. Entries are returned in first-appearance order (expenses,
// then shares, then settlements) with every amount rounded to cents.
//
// Shares that do not add up to their expense are not corrected; the
// difference shows up as a non-zero total across the group. Records whose
// member is the zero value cannot be attributed and are skipped.
func AggregateBalances[M comparable](expenses []ExpenseRecord[M], shares []ExpenseShare[M], settlements []SettlementRecord[M]) []Balance[M] {
	l := newLedger[M]()

	for _, e := range expenses {
		if b := l.entry(e.PaidBy); b != nil {
			b.Paid = b.Paid.Add(e.Amount)
		}
	}
	for _, s := range shares {
		if b := l.entry(s.UserID); b != nil {
			b.Owed = b.Owed.Add(s.ShareAmount)
		}
	}
	for _, s := range settlements {
		if b := l.entry(s.FromUserID); b != nil {
			b.SettledOut = b.SettledOut.Add(s.Amount)
		}
		if b := l.entry(s.ToUserID); b != nil {
			b.SettledIn = b.SettledIn.Add(s.Amount)
		}
	}

	return l.balances()
}

// ledger keeps balances in insertion order so results are deterministic
// without assuming anything about member ordering.
type ledger[M comparable] struct {
	index   map[M]int
	entries []Balance[M]
}

func newLedger[M comparable]() *ledger[M] {
	return &ledger[M]{index: make(map[M]int)}
}

// entry returns the balance for m, creating a zero entry on first use.
// The pointer is only valid until the next call.
func (l *ledger[M]) entry(m M) *Balance[M] {
	var zero M
	if m == zero {
		return nil
	}
	if i, ok := l.index[m]; ok {
		return &l.entries[i]
	}
	l.index[m] = len(l.entries)
	l.entries = append(l.entries, Balance[M]{UserID: m})
	return &l.entries[len(l.entries)-1]
}

func (l *ledger[M]) balances() []Balance[M] {
	out := make([]Balance[M], len(l.entries))
	for i, b := range l.entries {
		net := b.Paid.Sub(b.Owed).Add(b.SettledOut).Sub(b.SettledIn)
		out[i] = Balance[M]{
			UserID:     b.UserID,
			Balance:    roundMoney(net),
			Paid:       roundMoney(b.Paid),
			Owed:       roundMoney(b.Owed),
			SettledOut: roundMoney(b.SettledOut),
			SettledIn:  roundMoney(b.SettledIn),
		}
	}
	return out
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
