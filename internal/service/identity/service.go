package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// RegisterInput — данные для регистрации нового продавца.
type RegisterInput struct {
	Email    string
	Name     string
	Surname  string
	Password string
}

// Service отвечает за регистрацию и аутентификацию продавцов.
type Service struct {
	sellers domain.SellerRepository
	tokens  domain.TokenIssuer
	logger  *log.Entry
	now     func() time.Time
}

// NewService создаёт сервис учётных записей.
func NewService(sellers domain.SellerRepository, tokens domain.TokenIssuer, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "identity")
	}
	return &Service{
		sellers: sellers,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
}

// Register создаёт учётную запись продавца и возвращает её Identity.
// Пароль хешируется bcrypt и в открытом виде не сохраняется.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.Identity, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var issues []error
	if input.Email == "" {
		issues = append(issues, domain.ErrEmailRequired)
	}
	if input.Name == "" {
		issues = append(issues, domain.ErrNameRequired)
	}
	if input.Password == "" {
		issues = append(issues, domain.ErrPasswordRequired)
	}
	if verr := domain.NewValidationError(issues); verr != nil {
		return domain.Identity{}, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, err
	}

	seller := domain.Seller{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Surname:      input.Surname,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.sellers.Create(ctx, seller); err != nil {
		if errors.Is(err, domain.ErrSellerExists) {
			s.logger.WithField("email", seller.Email).Warn("registration rejected: email already taken")
		}
		return domain.Identity{}, err
	}

	s.logger.WithField("seller_id", seller.ID).Info("seller registered")
	return seller.Identity(), nil
}

// Authenticate проверяет учётные данные и выпускает токен доступа.
// Несуществующий email и неверный пароль дают одну и ту же ошибку.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	seller, err := s.sellers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(seller.Identity())
	if err != nil {
		s.logger.WithError(err).WithField("seller_id", seller.ID).Error("failed to issue token")
		return "", err
	}

	return token, nil
}

// Current возвращает полную учётную запись за вычетом хеша пароля.
func (s *Service) Current(ctx context.Context, identity *domain.Identity) (domain.Seller, error) {
	if identity == nil || identity.ID == "" {
		return domain.Seller{}, domain.ErrUnauthenticated
	}

	seller, err := s.sellers.Get(ctx, identity.ID)
	if err != nil {
		return domain.Seller{}, err
	}

	seller.PasswordHash = ""
	return seller, nil
}
