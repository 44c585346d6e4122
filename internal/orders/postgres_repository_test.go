package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lukecc25/Flowershop/internal/db"
	"github.com/lukecc25/Flowershop/internal/domain"
)

func setupTestDB(t *testing.T) (OrderRepository, *sql.DB, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &db.Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	conn, err := db.Connect(creds)
	require.NoError(t, err)

	err = db.RunMigrations(conn, creds.MigrationsDirPath)
	require.NoError(t, err)

	cleanup := func() {
		conn.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewPostgresRepository(conn), conn, cleanup
}

func newTestOrder(userID *int64) *domain.Order {
	return &domain.Order{
		UserID:      userID,
		TotalAmount: 39.90,
		Items: []domain.OrderItem{
			{FlowerID: 3, Quantity: 2, PriceAtTime: 19.95},
		},
	}
}

func TestCreateOrder_PersistsOrderItemsAndEvent(t *testing.T) {
	repo, conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder(nil)

	err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.IsZero())

	fetched, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.UserID)
	assert.Equal(t, 39.90, fetched.TotalAmount)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, int64(3), fetched.Items[0].FlowerID)
	assert.Equal(t, 2, fetched.Items[0].Quantity)
	assert.Equal(t, 19.95, fetched.Items[0].PriceAtTime)

	// An outbox event row was written in the same transaction.
	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "order.created", events[0].EventType)

	var payload struct {
		OrderID     int64   `json:"order_id"`
		TotalAmount float64 `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, 39.90, payload.TotalAmount)

	// Nothing leaked outside the transaction boundary.
	var itemCount int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM order_items").Scan(&itemCount))
	assert.Equal(t, 1, itemCount)
}

func TestCreateOrder_UnknownFlowerRollsBackEverything(t *testing.T) {
	repo, conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder(nil)
	order.Items = append(order.Items, domain.OrderItem{FlowerID: 99999, Quantity: 1, PriceAtTime: 1.00})

	err := repo.CreateOrder(ctx, order)
	require.Error(t, err)

	var orderCount, itemCount, eventCount int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orderCount))
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM order_items").Scan(&itemCount))
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM order_events").Scan(&eventCount))
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, eventCount)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrderByID(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersByUserID_NewestFirst(t *testing.T) {
	repo, conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	var userID int64
	require.NoError(t, conn.QueryRow(
		`INSERT INTO users (email, password) VALUES ('list@example.com', 'x') RETURNING id`,
	).Scan(&userID))

	order1 := newTestOrder(&userID)
	require.NoError(t, repo.CreateOrder(ctx, order1))

	// Small sleep to ensure different order_date timestamps
	time.Sleep(10 * time.Millisecond)

	order2 := newTestOrder(&userID)
	order2.TotalAmount = 19.95
	order2.Items = []domain.OrderItem{{FlowerID: 3, Quantity: 1, PriceAtTime: 19.95}}
	require.NoError(t, repo.CreateOrder(ctx, order2))

	list, err := repo.ListOrdersByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, order2.ID, list[0].ID)
	assert.Equal(t, order1.ID, list[1].ID)
}

func TestMarkEventAsProcessed(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrder(ctx, newTestOrder(nil)))

	events, err := repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.MarkEventAsProcessed(ctx, events[0].ID))

	events, err = repo.GetUnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
