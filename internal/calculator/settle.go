package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Suggestion is a proposed transfer that moves a group toward all-zero balances.
type Suggestion[M comparable] struct {
	FromUserID M // debtor
	ToUserID   M // creditor
	Amount     decimal.Decimal
}

// Settlement is the result of a full group computation.
type Settlement[M comparable] struct {
	Balances    []Balance[M]
	Suggestions []Suggestion[M]
}

// ComputeGroupSettlement aggregates the fact streams of a group and derives
// the transfers that would settle it. It is a pure function of its inputs.
func ComputeGroupSettlement[M comparable](expenses []ExpenseRecord[M], shares []ExpenseShare[M], settlements []SettlementRecord[M]) Settlement[M] {
	balances := AggregateBalances(expenses, shares, settlements)
	return Settlement[M]{
		Balances:    balances,
		Suggestions: SuggestSettlements(balances),
	}
}

// SuggestSettlements pairs the largest creditor with the largest debtor until
// one side runs out.
//
// Creditors (balance > Epsilon) are sorted descending and debtors
// (balance < -Epsilon) most negative first; both sorts are stable over the
// input order. Each step transfers min(creditor, |debtor|) and retires
// whichever side reached zero, so the loop runs at most
// len(creditors)+len(debtors)-1 times.
//
// This is a greedy approximation and does not minimise the number of
// transfers. When credits and debits do not cancel out, the residual on the
// longer side is left unmatched.
func SuggestSettlements[M comparable](balances []Balance[M]) []Suggestion[M] {
	negEpsilon := Epsilon.Neg()

	var creditors, debtors []Balance[M]
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Epsilon):
			creditors = append(creditors, b)
		case b.Balance.LessThan(negEpsilon):
			debtors = append(debtors, b)
		}
	}

	slices.SortStableFunc(creditors, func(a, b Balance[M]) int {
		return b.Balance.Cmp(a.Balance)
	})
	slices.SortStableFunc(debtors, func(a, b Balance[M]) int {
		return a.Balance.Cmp(b.Balance)
	})

	suggestions := []Suggestion[M]{}
	for len(creditors) > 0 && len(debtors) > 0 {
		c, d := &creditors[0], &debtors[0]

		transfer := decimal.Min(c.Balance, d.Balance.Abs())
		if transfer.LessThan(Epsilon) {
			break
		}

		suggestions = append(suggestions, Suggestion[M]{
			FromUserID: d.UserID,
			ToUserID:   c.UserID,
			Amount:     roundMoney(transfer),
		})

		c.Balance = c.Balance.Sub(transfer)
		d.Balance = d.Balance.Add(transfer)

		creditorDone := c.Balance.LessThanOrEqual(Epsilon)
		debtorDone := d.Balance.GreaterThanOrEqual(negEpsilon)
		if creditorDone {
			creditors = creditors[1:]
		}
		if debtorDone {
			debtors = debtors[1:]
		}
	}

	return suggestions
}
