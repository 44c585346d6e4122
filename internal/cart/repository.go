package cart

import (
	"context"
	"errors"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists one cart document per session in a
// read-then-overwrite pattern. The store composes it with a cache.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
