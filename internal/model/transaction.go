package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single recorded amount against a bucket. Amount is
// always a positive magnitude; whether it counts as inflow or outflow
// follows from the bucket's group. A transaction linked to a credit
// card or debt account is a payment that reduces that account's
// balance.
type Transaction struct {
	CreatedAt     time.Time
	Date          time.Time
	CategoryID    *int64
	CreditCardID  *string
	DebtAccountID *string
	ID            string
	UserID        string
	Name          string
	Amount        decimal.Decimal
}
