package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"qkart/storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context, username string) ([]domain.Order, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	address_id TEXT NOT NULL,
	total      DOUBLE PRECISION NOT NULL,
	items      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Migrate creates the orders table if it does not exist
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	return nil
}

func (r *orderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
	INSERT INTO orders (id, username, address_id, total, items, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO NOTHING`
	_, err = r.db.Exec(ctx, query, order.ID, order.Username, order.AddressID, order.Total, items, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}

	return nil
}

func (r *orderRepository) ListOrders(ctx context.Context, username string) ([]domain.Order, error) {
	query := `
	SELECT id, username, address_id, total, items, created_at
	FROM orders
	WHERE username = $1
	ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for %s: %w", username, err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			items []byte
		)
		if err := rows.Scan(&order.ID, &order.Username, &order.AddressID, &order.Total, &items, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items of order %s: %w", order.ID, err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders []domain.Order
}

// NewMemoryOrderRepository keeps the order history in process memory
func NewMemoryOrderRepository() OrderRepository {
	return &memoryOrderRepository{}
}

func (r *memoryOrderRepository) SaveOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == order.ID {
			return nil
		}
	}
	r.orders = append(r.orders, *order)
	return nil
}

func (r *memoryOrderRepository) ListOrders(_ context.Context, username string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].Username == username {
			orders = append(orders, r.orders[i])
		}
	}
	return orders, nil
}
