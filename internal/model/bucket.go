package model

import "fmt"

// BucketKind discriminates the three bucket variants.
type BucketKind string

const (
	// BucketCategory aggregates by plain category.
	BucketCategory BucketKind = "category"
	// BucketCard aggregates credit card payments per linked card. A
	// credit-card-typed debt account pools into this namespace too.
	BucketCard BucketKind = "card"
	// BucketDebt aggregates per linked non-card debt account.
	BucketDebt BucketKind = "debt"
)

// BucketKey identifies the unit of planned-vs-actual aggregation.
// It is a comparable value type, usable directly as a map key.
// Exactly one of CategoryID/AccountID carries meaning per kind:
// CategoryID for category buckets, AccountID for card and debt
// buckets. A card bucket with an empty AccountID is the "no card
// linked" pool.
type BucketKey struct {
	Kind       BucketKind
	AccountID  string
	CategoryID int64
}

// CategoryBucket keys a plain category bucket. ID 0 means
// uncategorized.
func CategoryBucket(categoryID int64) BucketKey {
	return BucketKey{Kind: BucketCategory, CategoryID: categoryID}
}

// CardBucket keys a credit card payment bucket. accountID may name a
// CreditCard or a credit-card-typed DebtAccount; both pool here.
func CardBucket(accountID string) BucketKey {
	return BucketKey{Kind: BucketCard, AccountID: accountID}
}

// DebtBucket keys a non-card debt account bucket.
func DebtBucket(accountID string) BucketKey {
	return BucketKey{Kind: BucketDebt, AccountID: accountID}
}

func (k BucketKey) String() string {
	switch k.Kind {
	case BucketCategory:
		return fmt.Sprintf("category/%d", k.CategoryID)
	case BucketCard:
		if k.AccountID == "" {
			return "card/none"
		}
		return "card/" + k.AccountID
	case BucketDebt:
		return "debt/" + k.AccountID
	default:
		return "unknown"
	}
}
