package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
)

// AddCreditCard registers a credit card with its current balance.
func (e *Engine) AddCreditCard(ctx context.Context, userID, name string, balance decimal.Decimal, apr, minPayment *decimal.Decimal) (*model.CreditCard, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validationf("card name cannot be blank")
	}

	card := &model.CreditCard{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Balance:    balance,
		APR:        apr,
		MinPayment: minPayment,
	}
	if err := e.store.CreateCreditCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// AddDebtAccount registers a debt account.
func (e *Engine) AddDebtAccount(ctx context.Context, userID, name string, debtType model.DebtType, balance decimal.Decimal, apr, minPayment *decimal.Decimal, dueDate *time.Time) (*model.DebtAccount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.Validationf("account name cannot be blank")
	}
	if !model.ValidDebtType(debtType) {
		return nil, common.Validationf("unknown debt type %q", debtType)
	}

	debt := &model.DebtAccount{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		DebtType:   debtType,
		Balance:    balance,
		APR:        apr,
		MinPayment: minPayment,
		DueDate:    dueDate,
	}
	if err := e.store.CreateDebtAccount(ctx, debt); err != nil {
		return nil, err
	}
	return debt, nil
}
