package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

const productColumns = `id, name, price_minor, available_qty, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, product.ID, product.Name, product.PriceMinor, product.AvailableQty,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(opCtx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.PriceMinor, &product.AvailableQty,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC
	`)
}

func (r *productRepository) Search(ctx context.Context, text string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE LOWER(name) LIKE '%' || LOWER($1) || '%'
		ORDER BY name ASC, id ASC
		LIMIT $2
	`, text, limit)
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE products
		SET name = $1, price_minor = $2, available_qty = $3, updated_at = $4
		WHERE id = $5
	`, product.Name, product.PriceMinor, product.AvailableQty, product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// AdjustStock применяет движения остатка одной транзакцией.
// Списание выполняется условным обновлением "available_qty >= delta" —
// конкурентные резервы по одному товару сериализуются самой базой,
// и два заказа не могут одновременно списать один и тот же остаток.
func (r *productRepository) AdjustStock(ctx context.Context, deltas []domain.StockDelta) (err error) {
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

	// Единый порядок блокировок строк: конкурентные транзакции по
	// пересекающимся товарам не встают в deadlock.
	ordered := make([]domain.StockDelta, len(deltas))
	copy(ordered, deltas)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	for _, d := range ordered {
		if d.Delta == 0 {
			continue
		}
		if d.Delta > 0 {
			err = reserveOne(opCtx, tx, d)
		} else {
			err = releaseOne(opCtx, tx, d)
		}
		if err != nil {
			// Rollback в defer — ни одно списание не фиксируется.
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit stock adjustment: %w", err)
	}

	return nil
}

func reserveOne(ctx context.Context, tx *sql.Tx, d domain.StockDelta) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET available_qty = available_qty - $2, updated_at = NOW()
		WHERE id = $1 AND available_qty >= $2
	`, d.ProductID, d.Delta)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Условное обновление не прошло: различаем "нет товара" и "нет остатка".
	var (
		name      string
		available int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT name, available_qty FROM products WHERE id = $1
	`, d.ProductID).Scan(&name, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("inspect product stock: %w", err)
	}

	return &domain.OutOfStockError{
		ProductID:   d.ProductID,
		ProductName: name,
		Requested:   d.Delta,
		Available:   available,
	}
}

func releaseOne(ctx context.Context, tx *sql.Tx, d domain.StockDelta) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET available_qty = available_qty - $2, updated_at = NOW()
		WHERE id = $1
	`, d.ProductID, d.Delta)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.PriceMinor,
			&product.AvailableQty, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
