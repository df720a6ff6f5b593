package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/common"
	"github.com/mthorne/budgetflow/internal/model"
	"github.com/mthorne/budgetflow/internal/service"
)

// TransactionInput carries the user-supplied fields of a transaction
// mutation. Amount is a positive magnitude.
type TransactionInput struct {
	Date          time.Time
	CategoryID    *int64
	CreditCardID  *string
	DebtAccountID *string
	Name          string
	Amount        decimal.Decimal
}

// linkTarget identifies the account a transaction's payment applies
// to. Reversal and application compensate the identified account; a
// changed target means two independent compensations, never one
// combined delta.
type linkTarget struct {
	id   string
	card bool
}

func linkOf(cardID, debtID *string) (linkTarget, bool) {
	switch {
	case cardID != nil:
		return linkTarget{card: true, id: *cardID}, true
	case debtID != nil:
		return linkTarget{card: false, id: *debtID}, true
	default:
		return linkTarget{}, false
	}
}

// InsertTransaction records a transaction and applies its balance
// effect in one atomic step: a payment of A linked to account X moves
// X.balance down by A.
func (e *Engine) InsertTransaction(ctx context.Context, userID string, in TransactionInput) (*model.Transaction, error) {
	cat, err := e.validateInput(ctx, userID, &in)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Date:          in.Date,
		Name:          synthesizeName(in.Name, cat),
		Amount:        in.Amount,
		CategoryID:    in.CategoryID,
		CreditCardID:  in.CreditCardID,
		DebtAccountID: in.DebtAccountID,
	}

	err = e.withTx(ctx, func(tx service.Tx) error {
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		if target, ok := linkOf(txn.CreditCardID, txn.DebtAccountID); ok {
			return adjustTarget(ctx, tx, target, txn.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// EditTransaction rewrites a transaction, first reversing the old
// linkage's balance effect with the old amount, then applying the new
// linkage's effect with the new amount. When the link target is
// unchanged the two compensations collapse into one delta; when it
// changed they hit two different accounts.
func (e *Engine) EditTransaction(ctx context.Context, userID, id string, in TransactionInput) (*model.Transaction, error) {
	old, err := e.store.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil || old.UserID != userID {
		return nil, common.NotFoundf("transaction %s does not exist", id)
	}

	cat, err := e.validateInput(ctx, userID, &in)
	if err != nil {
		return nil, err
	}

	updated := &model.Transaction{
		ID:            old.ID,
		UserID:        userID,
		Date:          in.Date,
		Name:          synthesizeName(in.Name, cat),
		Amount:        in.Amount,
		CategoryID:    in.CategoryID,
		CreditCardID:  in.CreditCardID,
		DebtAccountID: in.DebtAccountID,
		CreatedAt:     old.CreatedAt,
	}

	err = e.withTx(ctx, func(tx service.Tx) error {
		if err := tx.UpdateTransaction(ctx, updated); err != nil {
			return err
		}

		oldTarget, oldLinked := linkOf(old.CreditCardID, old.DebtAccountID)
		newTarget, newLinked := linkOf(updated.CreditCardID, updated.DebtAccountID)

		if oldLinked && newLinked && oldTarget == newTarget {
			return adjustTarget(ctx, tx, oldTarget, old.Amount.Sub(updated.Amount))
		}
		if oldLinked {
			if err := adjustTarget(ctx, tx, oldTarget, old.Amount); err != nil {
				return err
			}
		}
		if newLinked {
			return adjustTarget(ctx, tx, newTarget, updated.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses its balance
// effect.
func (e *Engine) DeleteTransaction(ctx context.Context, userID, id string) error {
	old, err := e.store.GetTransactionByID(ctx, id)
	if err != nil {
		return err
	}
	if old == nil || old.UserID != userID {
		return common.NotFoundf("transaction %s does not exist", id)
	}

	return e.withTx(ctx, func(tx service.Tx) error {
		if err := tx.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		if target, ok := linkOf(old.CreditCardID, old.DebtAccountID); ok {
			return adjustTarget(ctx, tx, target, old.Amount)
		}
		return nil
	})
}

// StartingBalances carries the user-supplied starting balance per
// account for the recalculate repair.
type StartingBalances struct {
	Cards map[string]decimal.Decimal
	Debts map[string]decimal.Decimal
}

// RecalculateBalances is the explicit repair path: it rebuilds each
// listed account's balance as startingBalance minus the sum of every
// payment ever linked to it, regardless of what incremental
// maintenance left behind. Running it twice with the same inputs
// yields the same balances.
func (e *Engine) RecalculateBalances(ctx context.Context, userID string, balances StartingBalances) error {
	return e.withTx(ctx, func(tx service.Tx) error {
		for _, cardID := range sortedKeys(balances.Cards) {
			card, err := tx.GetCreditCardByID(ctx, cardID)
			if err != nil {
				return err
			}
			if card == nil || card.UserID != userID {
				return common.NotFoundf("credit card %s does not exist", cardID)
			}

			paid, err := tx.SumCardPayments(ctx, cardID)
			if err != nil {
				return err
			}
			if err := tx.SetCreditCardBalance(ctx, cardID, balances.Cards[cardID].Sub(paid)); err != nil {
				return err
			}
		}

		for _, debtID := range sortedKeys(balances.Debts) {
			debt, err := tx.GetDebtAccountByID(ctx, debtID)
			if err != nil {
				return err
			}
			if debt == nil || debt.UserID != userID {
				return common.NotFoundf("debt account %s does not exist", debtID)
			}

			paid, err := tx.SumDebtPayments(ctx, debtID)
			if err != nil {
				return err
			}
			if err := tx.SetDebtAccountBalance(ctx, debtID, balances.Debts[debtID].Sub(paid)); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateInput enforces the link rules before any write: a credit
// card payment category requires a card (or card-typed debt account)
// link, a plain debt category requires a debt account link, and
// everything else must carry no link at all. It returns the resolved
// category for name synthesis.
func (e *Engine) validateInput(ctx context.Context, userID string, in *TransactionInput) (*model.Category, error) {
	if in.Date.IsZero() {
		return nil, common.Validationf("transaction date is required")
	}
	if !in.Amount.IsPositive() {
		return nil, common.Validationf("amount must be a positive number")
	}

	var cat *model.Category
	if in.CategoryID != nil {
		var err error
		cat, err = e.store.GetCategoryByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil || cat.UserID != userID {
			return nil, common.NotFoundf("category %d does not exist", *in.CategoryID)
		}
	}

	if in.CreditCardID != nil {
		card, err := e.store.GetCreditCardByID(ctx, *in.CreditCardID)
		if err != nil {
			return nil, err
		}
		if card == nil || card.UserID != userID {
			return nil, common.NotFoundf("credit card %s does not exist", *in.CreditCardID)
		}
	}

	var debt *model.DebtAccount
	if in.DebtAccountID != nil {
		var err error
		debt, err = e.store.GetDebtAccountByID(ctx, *in.DebtAccountID)
		if err != nil {
			return nil, err
		}
		if debt == nil || debt.UserID != userID {
			return nil, common.NotFoundf("debt account %s does not exist", *in.DebtAccountID)
		}
	}

	switch {
	case cat != nil && cat.IsCreditCardBucket:
		if in.CreditCardID == nil && in.DebtAccountID == nil {
			return nil, common.Validationf("a credit card payment must link a credit card")
		}
		if in.CreditCardID != nil && in.DebtAccountID != nil {
			return nil, common.Validationf("link either a credit card or a debt account, not both")
		}
		if debt != nil && !debt.IsCard() {
			return nil, common.Validationf("a credit card payment must link a credit card, not a %s", debt.DebtType)
		}
	case cat != nil && cat.Group == model.GroupDebt:
		if in.DebtAccountID == nil {
			return nil, common.Validationf("a debt payment must link a debt account")
		}
		if in.CreditCardID != nil {
			return nil, common.Validationf("a debt payment cannot link a credit card")
		}
	default:
		if in.CreditCardID != nil || in.DebtAccountID != nil {
			return nil, common.Validationf("only debt categories may link a card or debt account")
		}
	}

	return cat, nil
}

// synthesizeName fills a blank transaction name so the column is
// never null.
func synthesizeName(name string, cat *model.Category) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if cat != nil {
		return cat.Name
	}
	return "Transaction"
}

func adjustTarget(ctx context.Context, tx service.Tx, target linkTarget, delta decimal.Decimal) error {
	var err error
	if target.card {
		err = tx.AdjustCreditCardBalance(ctx, target.id, delta)
	} else {
		err = tx.AdjustDebtAccountBalance(ctx, target.id, delta)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.NotFoundf("linked account %s no longer exists", target.id)
	}
	if err != nil {
		return fmt.Errorf("failed to adjust balance for %s: %w", target.id, err)
	}
	return nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
