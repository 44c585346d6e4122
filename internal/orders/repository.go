package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OutboxEvent is one pending row of the order_events table. Events are
// written in the same transaction as the order and published asynchronously.
type OutboxEvent struct {
	ID          uuid.UUID
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OrderRepository interface {
	// CreateOrder persists the order, its items and an order.created outbox
	// event as one atomic unit: either all rows exist afterwards or none do.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)

	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id uuid.UUID) error
}
