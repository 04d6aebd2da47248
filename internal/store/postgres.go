package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a pgx connection pool. Upserts rely on the
// unique index over the key column, so concurrent writers to distinct keys
// never block one another.
type Postgres struct {
	pool *pgxpool.Pool
}

const createTableSQL = `
    CREATE TABLE IF NOT EXISTS weather_product (
        k          VARCHAR(100) PRIMARY KEY,
        v          VARCHAR(4000) NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )
`

const getByKeySQL = `
    SELECT k, v, created_at, updated_at
    FROM weather_product
    WHERE k = $1
`

const putSQL = `
    INSERT INTO weather_product (k, v, created_at, updated_at)
    VALUES ($1, $2, now(), now())
    ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()
    RETURNING k, v, created_at, updated_at
`

// NewPostgres connects a pool to databaseURL and ensures the product table
// exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect product store: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure weather_product table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool resources.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// GetByKey returns the product under key, or ErrNotFound.
func (p *Postgres) GetByKey(ctx context.Context, key string) (Product, error) {
	var product Product
	err := p.pool.QueryRow(ctx, getByKeySQL, key).Scan(
		&product.Key,
		&product.Value,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %q: %w", key, err)
	}
	return product, nil
}

// Put upserts the product by key and returns the stored row.
func (p *Postgres) Put(ctx context.Context, product Product) (Product, error) {
	var stored Product
	err := p.pool.QueryRow(ctx, putSQL, product.Key, product.Value).Scan(
		&stored.Key,
		&stored.Value,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return Product{}, fmt.Errorf("put product %q: %w", product.Key, err)
	}
	return stored, nil
}
