package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount expresses a journal line on the account's normal side.
// A debit to a debit-normal account (asset/expense) increases its balance;
// a debit to a credit-normal account decreases it, and symmetrically for
// credits. Services and repositories both use this so period balances and
// reports agree on sign conventions.
func SignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense:
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}

	net := line.Debit.Sub(line.Credit)
	if domain.NormalSideFor(accountType) == domain.CreditSide {
		net = net.Neg()
	}
	return net, nil
}

// NetChanges folds a set of lines into per-account normal-side deltas.
func NetChanges(lines []domain.JournalEntryLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not known for account %s", line.AccountID)
		}
		signed, err := SignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}
