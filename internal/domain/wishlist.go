package domain

import "context"

// MaxCompareItems caps the compare list.
const MaxCompareItems = 3

var ErrCompareFull = &Error{Code: EPRECONDITION, Reason: ReasonCompareFull, Message: "You can compare at most 3 products"}

// WishlistService keeps the products a session has saved for later.
type WishlistService interface {
	// Toggle adds the product or removes it when already present. It reports
	// whether the product is on the list afterwards. Unknown ids return ErrProductNotFound.
	Toggle(ctx context.Context, productID int) (bool, error)

	// Contains reports whether the product is on the list.
	Contains(ctx context.Context, productID int) bool

	// Items returns the saved product snapshots in insertion order.
	Items(ctx context.Context) []Product

	// Clear empties the list.
	Clear(ctx context.Context)
}

// CompareService keeps the products a session is comparing side by side.
type CompareService interface {
	// Toggle adds or removes the product. Adding to a full list returns ErrCompareFull.
	Toggle(ctx context.Context, productID int) (bool, error)

	// Items returns the compared product snapshots in insertion order.
	Items(ctx context.Context) []Product

	// Clear empties the list.
	Clear(ctx context.Context)
}
