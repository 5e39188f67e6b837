package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// ReportingRepository provides the SQL aggregates behind financial reports.
// Only Posted entries are visible to any of its queries.
type ReportingRepository interface {
	// GetActivityData returns, per account with any activity, the opening
	// balance accumulated before `from` (expressed on the account's normal
	// side) and the debit/credit totals within [from, to].
	GetActivityData(ctx context.Context, companyID string, from, to time.Time) ([]domain.TrialBalanceRow, error)
}
