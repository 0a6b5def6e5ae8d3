package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (err error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO orders (id, customer_id, seller_id, total_minor, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, order.ID, order.CustomerID, order.SellerID, order.TotalMinor,
		string(order.Status), order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err = insertItems(opCtx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	orders, err := r.queryOrders(opCtx, `WHERE o.id = $1`, id)
	if err != nil {
		return domain.Order{}, err
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return orders[0], nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	return r.queryOrders(opCtx, ``)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	return r.queryOrders(opCtx, `WHERE o.seller_id = $1`, sellerID)
}

func (r *orderRepository) ListBySellerAndStatus(ctx context.Context, sellerID string, status domain.OrderStatus) ([]domain.Order, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	return r.queryOrders(opCtx, `WHERE o.seller_id = $1 AND o.status = $2`, sellerID, string(status))
}

// Update перезаписывает заказ вместе с позициями одной транзакцией.
func (r *orderRepository) Update(ctx context.Context, order domain.Order) (err error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(opCtx, `
		UPDATE orders
		SET customer_id = $1, total_minor = $2, status = $3, updated_at = $4
		WHERE id = $5
	`, order.CustomerID, order.TotalMinor, string(order.Status), order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	if _, err = tx.ExecContext(opCtx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	if err = insertItems(opCtx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}

	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// TopCustomers агрегирует COMPLETED-заказы по клиенту.
// Сортировка детерминирована: сумма по убыванию, id по возрастанию.
func (r *orderRepository) TopCustomers(ctx context.Context, limit int) ([]domain.CustomerSales, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT customer_id, SUM(total_minor) AS total
		FROM orders
		WHERE status = $1
		GROUP BY customer_id
		ORDER BY total DESC, customer_id ASC
		LIMIT $2
	`, string(domain.OrderStatusCompleted), limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate top customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.CustomerSales, 0, limit)
	for rows.Next() {
		var entry domain.CustomerSales
		if err := rows.Scan(&entry.CustomerID, &entry.TotalMinor); err != nil {
			return nil, fmt.Errorf("scan top customer row: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top customer rows: %w", err)
	}

	return result, nil
}

// TopSellers агрегирует COMPLETED-заказы по продавцу.
func (r *orderRepository) TopSellers(ctx context.Context, limit int) ([]domain.SellerSales, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT seller_id, SUM(total_minor) AS total
		FROM orders
		WHERE status = $1
		GROUP BY seller_id
		ORDER BY total DESC, seller_id ASC
		LIMIT $2
	`, string(domain.OrderStatusCompleted), limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate top sellers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.SellerSales, 0, limit)
	for rows.Next() {
		var entry domain.SellerSales
		if err := rows.Scan(&entry.SellerID, &entry.TotalMinor); err != nil {
			return nil, fmt.Errorf("scan top seller row: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top seller rows: %w", err)
	}

	return result, nil
}

// queryOrders читает заказы вместе со снимком клиента (JOIN на customers).
func (r *orderRepository) queryOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.seller_id, o.total_minor, o.status, o.created_at, o.updated_at,
		       c.id, c.name, c.surname, c.company, c.email, c.phone, c.seller_id, c.created_at, c.updated_at
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		`+where+`
		ORDER BY o.created_at DESC, o.id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order    domain.Order
			status   string
			customer domain.Customer
		)
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.SellerID, &order.TotalMinor, &status,
			&order.CreatedAt, &order.UpdatedAt,
			&customer.ID, &customer.Name, &customer.Surname, &customer.Company,
			&customer.Email, &customer.Phone, &customer.SellerID,
			&customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		order.Customer = &customer

		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderLineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, qty, price_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderLineItem, 0)
	for rows.Next() {
		var item domain.OrderLineItem
		if err := rows.Scan(&item.ProductID, &item.Qty, &item.PriceMinor); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderLineItem) error {
	for position, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, qty, price_minor)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, position, item.ProductID, item.Qty, item.PriceMinor); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
