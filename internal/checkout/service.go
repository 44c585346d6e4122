// Package checkout converts a session's cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/domain"
	"github.com/lukecc25/Flowershop/internal/orders"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrMissingFields    = errors.New("required customer fields are missing")
	ErrOrderPersistence = errors.New("failed to persist order")
)

// CustomerInfo is what the checkout form must provide regardless of whether
// the customer is logged in.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Service struct {
	store *cart.Store
	repo  orders.OrderRepository
}

func NewService(store *cart.Store, repo orders.OrderRepository) *Service {
	return &Service{
		store: store,
		repo:  repo,
	}
}

// Checkout validates the cart, writes the order and its items atomically and
// resets the cart on success. userID 0 means guest checkout; the order is
// then owned by nobody. On any persistence failure the cart is left as it
// was so the customer can retry.
func (s *Service) Checkout(ctx context.Context, sessionID string, userID int64, info CustomerInfo) (*domain.Order, error) {
	c, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(info.Name) == "" ||
		strings.TrimSpace(info.Email) == "" ||
		strings.TrimSpace(info.Address) == "" {
		return nil, ErrMissingFields
	}

	flattened := c.Flatten()
	items := make([]domain.OrderItem, len(flattened))
	for i, item := range flattened {
		items[i] = domain.OrderItem{
			FlowerID:    item.FlowerID,
			Quantity:    item.Quantity,
			PriceAtTime: item.Price,
		}
	}

	order := &domain.Order{
		UserID:      ownerID(userID),
		TotalAmount: c.Total,
		Items:       items,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}

	// Order is committed; a cart reset failure must not fail the checkout.
	if err := s.store.Replace(ctx, sessionID, domain.NewCart(sessionID)); err != nil {
		log.Printf("failed to reset cart after checkout %d: %v", order.ID, err)
	}

	return order, nil
}

func ownerID(userID int64) *int64 {
	if userID == 0 {
		return nil
	}
	return &userID
}
