// Package model defines the core domain types for the budget ledger.
package model

import (
	"strings"
	"time"
)

// CategoryGroup is the top-level grouping a category belongs to.
type CategoryGroup string

const (
	// GroupIncome holds paychecks and other money coming in.
	GroupIncome CategoryGroup = "income"
	// GroupGiving holds charitable giving and gifts.
	GroupGiving CategoryGroup = "giving"
	// GroupSavings holds savings allocations.
	GroupSavings CategoryGroup = "savings"
	// GroupExpense holds everyday spending.
	GroupExpense CategoryGroup = "expense"
	// GroupDebt holds debt and credit card payments.
	GroupDebt CategoryGroup = "debt"
	// GroupMisc holds anything that fits nowhere else.
	GroupMisc CategoryGroup = "misc"
)

// Groups lists every category group in display order.
func Groups() []CategoryGroup {
	return []CategoryGroup{GroupIncome, GroupGiving, GroupSavings, GroupExpense, GroupDebt, GroupMisc}
}

// ValidGroup reports whether g is a known category group.
func ValidGroup(g CategoryGroup) bool {
	switch g {
	case GroupIncome, GroupGiving, GroupSavings, GroupExpense, GroupDebt, GroupMisc:
		return true
	}
	return false
}

// Category is one node in the two-level category hierarchy. A category
// either sits directly under its group (ParentID nil) or under a
// top-level category in the same group; nesting never goes deeper.
type Category struct {
	CreatedAt          time.Time
	Name               string
	UserID             string
	Group              CategoryGroup
	ParentID           *int64
	ID                 int64
	SortOrder          int
	Archived           bool
	IsDefault          bool
	IsCreditCardBucket bool
}

// IsCreditCardName reports whether a category name marks it as a
// credit card payment category. The check runs once at create/rename
// time and the result is stored on the row, so renaming a parent never
// silently reclassifies its children.
func IsCreditCardName(name string) bool {
	return strings.Contains(strings.ToLower(name), "credit card")
}
