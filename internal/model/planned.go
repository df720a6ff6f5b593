package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedType marks what side of the budget a planned item sits on.
type PlannedType string

const (
	// PlannedIncome is money expected to come in.
	PlannedIncome PlannedType = "income"
	// PlannedExpense is money expected to go out.
	PlannedExpense PlannedType = "expense"
	// PlannedDebt is a planned payment toward a debt balance.
	PlannedDebt PlannedType = "debt"
)

// PlannedItem is one planned allocation for a bucket in a month.
// Several rows may target the same bucket; editing the bucket's total
// collapses them to one (after explicit confirmation).
type PlannedItem struct {
	CreatedAt     time.Time
	Month         time.Time
	CreditCardID  *string
	DebtAccountID *string
	ID            string
	UserID        string
	Name          string
	Type          PlannedType
	CategoryID    int64
	Amount        decimal.Decimal
}
