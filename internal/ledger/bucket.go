package ledger

import (
	"github.com/mthorne/budgetflow/internal/model"
)

// resolveBucket classifies one record (planned item or transaction)
// into its aggregation bucket. The same three-way resolution applies
// to both record kinds so planned and actual totals always land
// together:
//
//  1. A credit card payment category buckets per linked card; a
//     CreditCard and a credit-card-typed DebtAccount pool into the
//     same namespace, keyed by whichever link is present.
//  2. Any other record linked to a debt account buckets per account.
//  3. Everything else buckets by category (0 = uncategorized).
func resolveBucket(cats map[int64]model.Category, categoryID *int64, cardID, debtID *string) model.BucketKey {
	var cat *model.Category
	if categoryID != nil {
		if c, ok := cats[*categoryID]; ok {
			cat = &c
		}
	}

	if cat != nil && cat.IsCreditCardBucket {
		switch {
		case cardID != nil:
			return model.CardBucket(*cardID)
		case debtID != nil:
			return model.CardBucket(*debtID)
		default:
			return model.CardBucket("")
		}
	}

	if debtID != nil {
		return model.DebtBucket(*debtID)
	}

	if categoryID != nil {
		return model.CategoryBucket(*categoryID)
	}
	return model.CategoryBucket(0)
}

// plannedBucket resolves a planned item's bucket.
func plannedBucket(cats map[int64]model.Category, item *model.PlannedItem) model.BucketKey {
	categoryID := item.CategoryID
	return resolveBucket(cats, &categoryID, item.CreditCardID, item.DebtAccountID)
}

// transactionBucket resolves a transaction's bucket.
func transactionBucket(cats map[int64]model.Category, txn *model.Transaction) model.BucketKey {
	return resolveBucket(cats, txn.CategoryID, txn.CreditCardID, txn.DebtAccountID)
}

// plannedTypeFor picks the planned item type implied by a category group.
func plannedTypeFor(group model.CategoryGroup) model.PlannedType {
	switch group {
	case model.GroupIncome:
		return model.PlannedIncome
	case model.GroupDebt:
		return model.PlannedDebt
	default:
		return model.PlannedExpense
	}
}
