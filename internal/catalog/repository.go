package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository interface {
	ListStores(ctx context.Context) ([]Store, error)
	ListProducts(ctx context.Context, storeName string) ([]Product, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListStores returns every store in catalog order, without products.
func (r *PostgresRepository) ListStores(ctx context.Context) ([]Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, segment, image_url
		FROM stores
		ORDER BY position, name
	`)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	defer rows.Close()

	stores := []Store{}
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.Name, &s.Segment, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stores, nil
}

// ListProducts returns the products of one store in catalog order. An unknown
// store yields an empty list.
func (r *PostgresRepository) ListProducts(ctx context.Context, storeName string) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, price, image_url, category
		FROM products
		WHERE store_name = $1
		ORDER BY position, id
	`, storeName)
	if err != nil {
		return nil, fmt.Errorf("select products for %s: %w", storeName, err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Name, &p.Price, &p.ImageURL, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}
