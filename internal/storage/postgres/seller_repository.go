package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type sellerRepository struct {
	db *sql.DB
}

// NewSellerRepository создаёт PostgreSQL-реализацию SellerRepository.
func NewSellerRepository(store *Store) domain.SellerRepository {
	return &sellerRepository{db: store.DB()}
}

func (r *sellerRepository) Create(ctx context.Context, seller domain.Seller) error {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO sellers (id, email, name, surname, password_hash, created_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
	`, seller.ID, seller.Email, seller.Name, seller.Surname, seller.PasswordHash, seller.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSellerExists
		}
		return fmt.Errorf("insert seller: %w", err)
	}

	return nil
}

func (r *sellerRepository) Get(ctx context.Context, id string) (domain.Seller, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *sellerRepository) GetByEmail(ctx context.Context, email string) (domain.Seller, error) {
	return r.getWhere(ctx, `email = LOWER($1)`, email)
}

func (r *sellerRepository) getWhere(ctx context.Context, where string, arg any) (domain.Seller, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	var seller domain.Seller
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, email, name, surname, password_hash, created_at
		FROM sellers
		WHERE `+where, arg,
	).Scan(&seller.ID, &seller.Email, &seller.Name, &seller.Surname, &seller.PasswordHash, &seller.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Seller{}, domain.ErrSellerNotFound
		}
		return domain.Seller{}, fmt.Errorf("select seller: %w", err)
	}

	return seller, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.SellerRepository = (*sellerRepository)(nil)
