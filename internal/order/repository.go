package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Repository is the durable order history. The in-process Store mirrors what
// was saved through it during this run.
type Repository interface {
	Save(ctx context.Context, o Order) error
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	Stream(ctx context.Context, every time.Duration) <-chan []Order
}

type PostgresRepository struct {
	pool   DBPool
	logger *zap.Logger
}

func NewPostgresRepository(pool DBPool, logger *zap.Logger) *PostgresRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresRepository{pool: pool, logger: logger}
}

// Save writes the order and its lines in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, o Order) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO orders (id, created_at, status, total)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.CreatedAt, string(o.Status), o.Total); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, l := range o.Lines {
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, position, name, price, image_url, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, o.ID, i, l.Name, l.Price, l.ImageURL, l.Quantity); err != nil {
			return fmt.Errorf("insert order_line: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns every order, newest first, with lines in checkout order.
func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, status, total
		FROM orders
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	orders := []Order{}
	index := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT order_id, name, price, image_url, quantity
		FROM order_lines
		ORDER BY order_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("select order_lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID string
		var l Line
		if err := lineRows.Scan(&orderID, &l.Name, &l.Price, &l.ImageURL, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan order_line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		SELECT id, created_at, status, total
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT name, price, image_url, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return Order{}, fmt.Errorf("select order_lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.Name, &l.Price, &l.ImageURL, &l.Quantity); err != nil {
			return Order{}, fmt.Errorf("scan order_line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return Order{}, fmt.Errorf("rows: %w", err)
	}
	return o, nil
}

// Stream sends a full order list right away and again on every tick until ctx
// is done, then closes the channel. A failed poll is logged and skipped.
func (r *PostgresRepository) Stream(ctx context.Context, every time.Duration) <-chan []Order {
	out := make(chan []Order)
	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			orders, err := r.List(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Warn("order stream poll failed", zap.Error(err))
			} else {
				select {
				case out <- orders:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	if err := row.Scan(&o.ID, &o.CreatedAt, &status, &o.Total); err != nil {
		return Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.Status = Status(status)
	return o, nil
}
