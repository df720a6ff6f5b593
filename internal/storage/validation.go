// Package storage provides the data persistence layer for the budgetflow application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mthorne/budgetflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPlanned   = errors.New("invalid planned item")
	ErrInvalidTxn       = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategory validates a category row before writing.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if cat.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidCategory)
	}
	if !model.ValidGroup(cat.Group) {
		return fmt.Errorf("%w: unknown group %q", ErrInvalidCategory, cat.Group)
	}
	return nil
}

// validatePlannedItem validates a planned item row before writing.
func validatePlannedItem(item *model.PlannedItem) error {
	if item == nil {
		return fmt.Errorf("%w: planned item", ErrNilParameter)
	}
	if item.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPlanned)
	}
	if item.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidPlanned)
	}
	if item.Month.IsZero() {
		return fmt.Errorf("%w: missing month", ErrInvalidPlanned)
	}
	if item.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidPlanned)
	}
	if item.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidPlanned)
	}
	return nil
}

// validateTransaction validates a transaction row before writing.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTxn)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidTxn)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	if txn.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTxn)
	}
	return nil
}
