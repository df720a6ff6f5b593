package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard is a card whose running balance the engine keeps
// consistent with the payments recorded against it.
type CreditCard struct {
	CreatedAt  time.Time
	APR        *decimal.Decimal
	MinPayment *decimal.Decimal
	ID         string
	UserID     string
	Name       string
	Balance    decimal.Decimal
}

// DebtType classifies a debt account.
type DebtType string

const (
	// DebtCreditCard marks a debt account that behaves like a credit card.
	DebtCreditCard DebtType = "credit_card"
	// DebtLoan is a generic personal or auto loan.
	DebtLoan DebtType = "loan"
	// DebtMortgage is a home loan.
	DebtMortgage DebtType = "mortgage"
	// DebtStudentLoan is a student loan.
	DebtStudentLoan DebtType = "student_loan"
	// DebtOther covers everything else.
	DebtOther DebtType = "other"
)

// ValidDebtType reports whether t is a known debt type.
func ValidDebtType(t DebtType) bool {
	switch t {
	case DebtCreditCard, DebtLoan, DebtMortgage, DebtStudentLoan, DebtOther:
		return true
	}
	return false
}

// DebtAccount is any account with a balance owed. A DebtAccount of
// type credit_card buckets exactly like a CreditCard.
type DebtAccount struct {
	CreatedAt  time.Time
	DueDate    *time.Time
	APR        *decimal.Decimal
	MinPayment *decimal.Decimal
	ID         string
	UserID     string
	Name       string
	DebtType   DebtType
	Balance    decimal.Decimal
}

// IsCard reports whether the account buckets with credit cards.
func (d *DebtAccount) IsCard() bool {
	return d.DebtType == DebtCreditCard
}
