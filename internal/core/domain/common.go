package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// BalanceTolerance is the maximum absolute difference at which two monetary
// sums are still considered equal. It absorbs rounding from upstream tax and
// currency calculations.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether two amounts are equal within BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}
