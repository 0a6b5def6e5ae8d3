package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// DefaultTokenTTL — срок действия выпускаемого токена.
const DefaultTokenTTL = 24 * time.Hour

// tokenClaims — содержимое токена: идентификатор в Subject плюс отображаемые поля.
type tokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет подписанные HS256-токены.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов. При ttl <= 0 берётся DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает токен для проверенного Identity.
func (m *TokenManager) Issue(identity domain.Identity) (string, error) {
	now := m.now().UTC()
	claims := tokenClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Surname: identity.Surname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify проверяет подпись и срок действия и возвращает Identity из токена.
func (m *TokenManager) Verify(token string) (domain.Identity, error) {
	var claims tokenClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("token has no subject")
	}

	return domain.Identity{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Surname: claims.Surname,
	}, nil
}

var (
	_ domain.TokenIssuer   = (*TokenManager)(nil)
	_ domain.TokenVerifier = (*TokenManager)(nil)
)
