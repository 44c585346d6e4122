package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lukecc25/Flowershop/internal/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) FlowerRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetAll(ctx context.Context, category string) ([]*domain.Flower, error) {
	query := `SELECT flower_id, name, category, price, photo FROM flowers`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flowers: %w", err)
	}
	defer rows.Close()

	var flowers []*domain.Flower
	for rows.Next() {
		f := &domain.Flower{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.Price, &f.Photo); err != nil {
			return nil, fmt.Errorf("scan flower row: %w", err)
		}
		flowers = append(flowers, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return flowers, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*domain.Flower, error) {
	query := `SELECT flower_id, name, category, price, photo FROM flowers WHERE flower_id = $1`

	f := &domain.Flower{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Name, &f.Category, &f.Price, &f.Photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlowerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query flower by id: %w", err)
	}

	return f, nil
}

func (r *postgresRepository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM flowers ORDER BY category`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

func (r *postgresRepository) Add(ctx context.Context, flower *domain.Flower) error {
	query := `INSERT INTO flowers (name, category, price, photo)
	          VALUES ($1, $2, $3, $4)
	          RETURNING flower_id`

	err := r.db.QueryRowContext(ctx, query,
		flower.Name,
		flower.Category,
		flower.Price,
		flower.Photo).Scan(&flower.ID)
	if err != nil {
		return fmt.Errorf("insert flower: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, flower *domain.Flower) error {
	query := `UPDATE flowers SET name = $1, category = $2, price = $3, photo = $4
	          WHERE flower_id = $5`

	result, err := r.db.ExecContext(ctx, query,
		flower.Name,
		flower.Category,
		flower.Price,
		flower.Photo,
		flower.ID)
	if err != nil {
		return fmt.Errorf("update flower: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update flower rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFlowerNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flowers WHERE flower_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flower: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete flower rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFlowerNotFound
	}
	return nil
}
