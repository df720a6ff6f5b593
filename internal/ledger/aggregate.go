package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mthorne/budgetflow/internal/model"
)

// BucketRow is one planned-vs-actual line for the month view.
// Remaining is always exactly Planned - Actual. For income and savings
// buckets a negative Remaining is just a difference; for every other
// group it is flagged as an overspend.
type BucketRow struct {
	Label     string
	ParentID  *int64
	Key       model.BucketKey
	Group     model.CategoryGroup
	SortOrder int
	Planned   decimal.Decimal
	Actual    decimal.Decimal
	Remaining decimal.Decimal
	Overspent bool
}

type bucketTotals struct {
	planned decimal.Decimal
	actual  decimal.Decimal
}

// BucketRows aggregates the month into per-bucket rows: every
// non-archived leaf category, every credit card, every debt account,
// plus any bucket that shows up in the records anyway (archived
// categories with history, unlinked card payments).
func (e *Engine) BucketRows(ctx context.Context, userID string, month time.Time) ([]BucketRow, error) {
	data, err := e.LoadMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return bucketRows(data), nil
}

func bucketRows(data *MonthData) []BucketRow {
	cats := data.CategoryIndex()

	totals := make(map[model.BucketKey]*bucketTotals)
	get := func(key model.BucketKey) *bucketTotals {
		t, ok := totals[key]
		if !ok {
			t = &bucketTotals{planned: decimal.Zero, actual: decimal.Zero}
			totals[key] = t
		}
		return t
	}

	for i := range data.Planned {
		item := &data.Planned[i]
		t := get(plannedBucket(cats, item))
		t.planned = t.planned.Add(item.Amount)
	}
	for i := range data.Transactions {
		txn := &data.Transactions[i]
		t := get(transactionBucket(cats, txn))
		t.actual = t.actual.Add(txn.Amount)
	}

	hasChildren := make(map[int64]bool)
	for _, cat := range data.Categories {
		if cat.ParentID != nil {
			hasChildren[*cat.ParentID] = true
		}
	}

	var rows []BucketRow
	seen := make(map[model.BucketKey]bool)
	add := func(key model.BucketKey, label string, group model.CategoryGroup, parentID *int64, sortOrder int) {
		if seen[key] {
			return
		}
		seen[key] = true
		t := get(key)
		rows = append(rows, newBucketRow(key, label, group, parentID, sortOrder, t.planned, t.actual))
	}

	// Leaf categories first: card payment categories bucket per card,
	// so they are not listed as category buckets, and parents with
	// children only appear through rollups.
	for _, cat := range data.Categories {
		if cat.Archived || cat.IsCreditCardBucket || hasChildren[cat.ID] {
			continue
		}
		add(model.CategoryBucket(cat.ID), cat.Name, cat.Group, cat.ParentID, cat.SortOrder)
	}

	for i := range data.Cards {
		card := &data.Cards[i]
		add(model.CardBucket(card.ID), card.Name, model.GroupDebt, nil, 0)
	}
	for i := range data.Debts {
		debt := &data.Debts[i]
		if debt.IsCard() {
			add(model.CardBucket(debt.ID), debt.Name, model.GroupDebt, nil, 0)
		} else {
			add(model.DebtBucket(debt.ID), debt.Name, model.GroupDebt, nil, 0)
		}
	}

	// Anything left over: archived categories with history, records
	// whose account no longer exists, the unlinked card pool.
	leftover := make([]model.BucketKey, 0, len(totals))
	for key := range totals {
		if !seen[key] {
			leftover = append(leftover, key)
		}
	}
	sort.Slice(leftover, func(i, j int) bool { return leftover[i].String() < leftover[j].String() })
	for _, key := range leftover {
		label, group, parentID := leftoverLabel(key, cats)
		add(key, label, group, parentID, 0)
	}

	sortRows(rows)
	return rows
}

func newBucketRow(key model.BucketKey, label string, group model.CategoryGroup, parentID *int64, sortOrder int, planned, actual decimal.Decimal) BucketRow {
	remaining := planned.Sub(actual)
	return BucketRow{
		Key:       key,
		Label:     label,
		Group:     group,
		ParentID:  parentID,
		SortOrder: sortOrder,
		Planned:   planned,
		Actual:    actual,
		Remaining: remaining,
		Overspent: overspent(group, remaining),
	}
}

// overspent reports whether a negative remaining is an alarm state.
// Income and savings treat remaining as a plain difference.
func overspent(group model.CategoryGroup, remaining decimal.Decimal) bool {
	switch group {
	case model.GroupIncome, model.GroupSavings:
		return false
	default:
		return remaining.IsNegative()
	}
}

func leftoverLabel(key model.BucketKey, cats map[int64]model.Category) (string, model.CategoryGroup, *int64) {
	switch key.Kind {
	case model.BucketCategory:
		if cat, ok := cats[key.CategoryID]; ok {
			return cat.Name, cat.Group, cat.ParentID
		}
		return "Uncategorized", model.GroupMisc, nil
	case model.BucketCard:
		if key.AccountID == "" {
			return "Credit card payments (no card)", model.GroupDebt, nil
		}
		return "Unknown card", model.GroupDebt, nil
	default:
		return "Unknown debt account", model.GroupDebt, nil
	}
}

var groupRank = map[model.CategoryGroup]int{
	model.GroupIncome:  0,
	model.GroupGiving:  1,
	model.GroupSavings: 2,
	model.GroupExpense: 3,
	model.GroupDebt:    4,
	model.GroupMisc:    5,
}

func sortRows(rows []BucketRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if groupRank[rows[i].Group] != groupRank[rows[j].Group] {
			return groupRank[rows[i].Group] < groupRank[rows[j].Group]
		}
		if rows[i].SortOrder != rows[j].SortOrder {
			return rows[i].SortOrder < rows[j].SortOrder
		}
		return rows[i].Label < rows[j].Label
	})
}

// ParentRollups produces display rows for parent categories: a
// parent's totals are the sum of its children's category buckets, and
// a parent with children is never bucketed directly.
func ParentRollups(rows []BucketRow, categories []model.Category) []BucketRow {
	parents := make(map[int64]model.Category)
	for _, cat := range categories {
		parents[cat.ID] = cat
	}

	sums := make(map[int64]*bucketTotals)
	for _, row := range rows {
		if row.Key.Kind != model.BucketCategory || row.ParentID == nil {
			continue
		}
		t, ok := sums[*row.ParentID]
		if !ok {
			t = &bucketTotals{planned: decimal.Zero, actual: decimal.Zero}
			sums[*row.ParentID] = t
		}
		t.planned = t.planned.Add(row.Planned)
		t.actual = t.actual.Add(row.Actual)
	}

	var rollups []BucketRow
	for id, t := range sums {
		parent, ok := parents[id]
		if !ok {
			continue
		}
		rollups = append(rollups, newBucketRow(
			model.CategoryBucket(parent.ID), parent.Name, parent.Group, nil, parent.SortOrder,
			t.planned, t.actual))
	}
	sortRows(rollups)
	return rollups
}

// plannedFlows computes the month's planned income and planned
// outflow. A debt account with no planned item this month contributes
// its minimum payment to the outflow, so minimums are never silently
// excluded from the budget.
func plannedFlows(data *MonthData) (income, outflow decimal.Decimal) {
	income, outflow = decimal.Zero, decimal.Zero

	plannedDebts := make(map[string]bool)
	for i := range data.Planned {
		item := &data.Planned[i]
		if item.Type == model.PlannedIncome {
			income = income.Add(item.Amount)
		} else {
			outflow = outflow.Add(item.Amount)
		}
		if item.DebtAccountID != nil {
			plannedDebts[*item.DebtAccountID] = true
		}
	}

	for i := range data.Debts {
		debt := &data.Debts[i]
		if plannedDebts[debt.ID] || debt.MinPayment == nil {
			continue
		}
		outflow = outflow.Add(*debt.MinPayment)
	}

	return income, outflow
}
