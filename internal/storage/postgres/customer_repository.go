package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

const customerColumns = `id, name, surname, company, email, phone, seller_id, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, LOWER($5), $6, $7, $8, $9)
	`, customer.ID, customer.Name, customer.Surname, customer.Company, customer.Email,
		customer.Phone, customer.SellerID, customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCustomerExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (domain.Customer, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(opCtx, `
		SELECT `+customerColumns+` FROM customers WHERE id = $1
	`, id).Scan(&customer.ID, &customer.Name, &customer.Surname, &customer.Company,
		&customer.Email, &customer.Phone, &customer.SellerID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	return r.query(ctx, `
		SELECT `+customerColumns+` FROM customers ORDER BY id ASC
	`)
}

// ListBySeller фильтрует по владельцу на стороне базы — чужие строки не читаются.
func (r *customerRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Customer, error) {
	return r.query(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE seller_id = $1 ORDER BY id ASC
	`, sellerID)
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE customers
		SET name = $1, surname = $2, company = $3, email = LOWER($4), phone = $5, updated_at = $6
		WHERE id = $7
	`, customer.Name, customer.Surname, customer.Company, customer.Email, customer.Phone,
		customer.UpdatedAt, customer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCustomerExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) query(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Surname, &customer.Company,
			&customer.Email, &customer.Phone, &customer.SellerID,
			&customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
