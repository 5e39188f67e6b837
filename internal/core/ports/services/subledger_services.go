package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// SubledgerSvcFacade derives party-level views from control account lines.
type SubledgerSvcFacade interface {
	// AgingReport buckets open party balances by days outstanding. boundaries
	// are the bucket cut-offs in days, strictly increasing; nil or empty
	// falls back to domain.DefaultAgingBoundaries.
	AgingReport(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time, boundaries []int) (*domain.AgingReport, error)
	PartyLedger(ctx context.Context, companyID string, partyType, partyID string, from, to time.Time) (*domain.PartyLedger, error)
	PartyBalances(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) ([]domain.PartyBalance, error)
	// ReconcileControl checks that the control account general ledger
	// balance equals the sum of its party balances.
	ReconcileControl(ctx context.Context, companyID string, controlType domain.ControlAccountType, asOf time.Time) (*domain.ControlReconciliation, error)
}
