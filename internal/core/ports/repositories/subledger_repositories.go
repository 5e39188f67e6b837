package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubledgerDocLine is one party-tagged control-account line with the entry
// metadata needed to age or replay it.
type SubledgerDocLine struct {
	EntryID     string
	EntryNumber int64
	EntryDate   time.Time
	DueDate     *time.Time
	SourceType  domain.SourceType
	SourceID    string
	Description string
	PartyType   string
	PartyID     string
	PartyName   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// SubledgerRepository provides the journal-line projections behind party
// reports. All queries see Posted entries only.
type SubledgerRepository interface {
	// ListPartyLines returns every party-tagged line on control accounts of
	// the given subledger type up to asOf, ordered by party, then entry date,
	// then entry number.
	ListPartyLines(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) ([]SubledgerDocLine, error)

	// ListLinesForParty returns one party's lines within [from, to], ordered
	// by entry date then entry number.
	ListLinesForParty(ctx context.Context, companyID, partyType, partyID string, from, to time.Time) ([]SubledgerDocLine, error)

	// GetPartyOpeningBalance nets all of a party's lines strictly before the
	// given date (debits minus credits).
	GetPartyOpeningBalance(ctx context.Context, companyID, partyType, partyID string, before time.Time) (decimal.Decimal, error)

	// GetControlAccountBalance nets all posted lines on the control account
	// itself up to asOf (debits minus credits).
	GetControlAccountBalance(ctx context.Context, companyID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// ListPartyBalances nets party-tagged lines on one control account up to
	// asOf, grouped per party.
	ListPartyBalances(ctx context.Context, companyID, accountID string, asOf time.Time) ([]domain.PartyBalance, error)
}
