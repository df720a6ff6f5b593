package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetMonth carries the "available to budget" figure for one user
// and month. AvailableStart rolls over from the previous month's
// AvailableEnd unless the user pinned it explicitly, in which case
// StartOverridden is set and refreshes leave AvailableStart alone.
type BudgetMonth struct {
	Month           time.Time
	UserID          string
	ID              int64
	AvailableStart  decimal.Decimal
	AvailableEnd    decimal.Decimal
	StartOverridden bool
}
