package catalog

import (
	"context"
	"errors"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrFlowerNotFound = errors.New("flower not found")

// FlowerRepository defines the interface for catalog data operations.
// Consumers define this interface, not the Postgres implementation.
type FlowerRepository interface {
	GetAll(ctx context.Context, category string) ([]*domain.Flower, error)
	GetByID(ctx context.Context, id int64) (*domain.Flower, error)
	Categories(ctx context.Context) ([]string, error)
	Add(ctx context.Context, flower *domain.Flower) error
	Update(ctx context.Context, flower *domain.Flower) error
	Delete(ctx context.Context, id int64) error
}
