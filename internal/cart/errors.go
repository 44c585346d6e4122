package cart

import "errors"

var (
	// ErrInvalidBouquet means the bouquet index does not address an existing
	// bouquet. Missing and non-numeric indices are reported the same way.
	ErrInvalidBouquet = errors.New("bouquet does not exist")

	// ErrInvalidReference means an item or bouquet index is out of range.
	ErrInvalidReference = errors.New("invalid cart reference")

	// ErrInvalidKind means the item kind is not something the shop sells.
	ErrInvalidKind = errors.New("invalid item kind")
)
