package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/domain"
	"github.com/lukecc25/Flowershop/internal/orders"
)

type mockCartRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
}

func (m *mockCartRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.cart == nil {
		return nil, cart.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = c
	return nil
}

func (m *mockCartRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

func (m *mockCartRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Cart, error) { return nil, cart.ErrCacheMiss }
func (nopCache) Set(context.Context, string, *domain.Cart) error   { return nil }
func (nopCache) Delete(context.Context, string) error              { return nil }

type mockOrderRepository struct {
	created *domain.Order
	err     error
}

func (m *mockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	order.ID = 42
	order.Status = domain.OrderStatusPending
	m.created = order
	return nil
}

func (m *mockOrderRepository) GetOrderByID(context.Context, int64) (*domain.Order, error) {
	return nil, orders.ErrOrderNotFound
}

func (m *mockOrderRepository) ListOrdersByUserID(context.Context, int64) ([]*domain.Order, error) {
	return nil, nil
}

func (m *mockOrderRepository) GetUnprocessedEvents(context.Context, int) ([]*orders.OutboxEvent, error) {
	return nil, nil
}

func (m *mockOrderRepository) MarkEventAsProcessed(context.Context, uuid.UUID) error {
	return nil
}

func cartWithGardenias(sessionID string, quantity int) *domain.Cart {
	c := domain.NewCart(sessionID)
	c.Bouquets[0].Items = []domain.CartItem{
		{FlowerID: 3, Kind: domain.ItemKindFlower, Name: "Gardenia", Price: 19.95, Quantity: quantity},
	}
	c.RecalculateTotal()
	return c
}

func validInfo() CustomerInfo {
	return CustomerInfo{Name: "Ada", Email: "ada@example.com", Address: "1 Garden Lane"}
}

func TestCheckout_Success(t *testing.T) {
	cartRepo := &mockCartRepository{cart: cartWithGardenias("sess-1", 2)}
	orderRepo := &mockOrderRepository{}
	sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

	order, err := sut.Checkout(context.Background(), "sess-1", 7, validInfo())
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.NotNil(t, order.UserID)
	assert.Equal(t, int64(7), *order.UserID)
	assert.Equal(t, 39.9, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(3), order.Items[0].FlowerID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 19.95, order.Items[0].PriceAtTime)

	// Cart was reset to the empty single-bouquet state.
	require.NotNil(t, cartRepo.getCart())
	assert.True(t, cartRepo.getCart().IsEmpty())
	require.Len(t, cartRepo.getCart().Bouquets, 1)
}

func TestCheckout_GuestHasNoOwner(t *testing.T) {
	cartRepo := &mockCartRepository{cart: cartWithGardenias("sess-1", 1)}
	orderRepo := &mockOrderRepository{}
	sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

	order, err := sut.Checkout(context.Background(), "sess-1", 0, validInfo())
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestCheckout_EmptyCartCreatesNoOrder(t *testing.T) {
	cartRepo := &mockCartRepository{cart: domain.NewCart("sess-1")}
	orderRepo := &mockOrderRepository{}
	sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

	_, err := sut.Checkout(context.Background(), "sess-1", 7, validInfo())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, orderRepo.created)
}

func TestCheckout_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		info CustomerInfo
	}{
		{"no name", CustomerInfo{Email: "a@b.c", Address: "x"}},
		{"no email", CustomerInfo{Name: "Ada", Address: "x"}},
		{"no address", CustomerInfo{Name: "Ada", Email: "a@b.c"}},
		{"whitespace only", CustomerInfo{Name: "  ", Email: "a@b.c", Address: "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cartRepo := &mockCartRepository{cart: cartWithGardenias("sess-1", 1)}
			orderRepo := &mockOrderRepository{}
			sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

			_, err := sut.Checkout(context.Background(), "sess-1", 7, tc.info)
			require.ErrorIs(t, err, ErrMissingFields)
			assert.Nil(t, orderRepo.created)
		})
	}
}

func TestCheckout_PersistenceFailureKeepsCart(t *testing.T) {
	cartRepo := &mockCartRepository{cart: cartWithGardenias("sess-1", 2)}
	orderRepo := &mockOrderRepository{err: errors.New("connection refused")}
	sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

	_, err := sut.Checkout(context.Background(), "sess-1", 7, validInfo())
	require.ErrorIs(t, err, ErrOrderPersistence)

	// The cart survives so the customer can retry.
	assert.False(t, cartRepo.getCart().IsEmpty())
	assert.Equal(t, 2, cartRepo.getCart().ItemCount())
}

func TestCheckout_FlattensAllBouquets(t *testing.T) {
	c := domain.NewCart("sess-1")
	c.Bouquets[0].Items = []domain.CartItem{
		{FlowerID: 3, Kind: domain.ItemKindFlower, Price: 19.95, Quantity: 1},
	}
	c.Bouquets = append(c.Bouquets, domain.Bouquet{
		Name: domain.BouquetName(1),
		Items: []domain.CartItem{
			{FlowerID: 7, Kind: domain.ItemKindFlower, Price: 12.95, Quantity: 2},
		},
	})
	c.RecalculateTotal()

	cartRepo := &mockCartRepository{cart: c}
	orderRepo := &mockOrderRepository{}
	sut := NewService(cart.NewStore(cartRepo, nopCache{}), orderRepo)

	order, err := sut.Checkout(context.Background(), "sess-1", 0, validInfo())
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 19.95+2*12.95, order.TotalAmount, 0.001)
}
