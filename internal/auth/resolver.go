package auth

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

const bearerPrefix = "Bearer "

// Resolver превращает входящий credential в проверенный Identity.
// Работает по принципу fail-closed: любой повреждённый или просроченный токен
// даёт анонимный результат, а не ошибку, обрывающую запрос.
type Resolver struct {
	verifier domain.TokenVerifier
	logger   *log.Entry
}

// NewResolver создаёт резолвер поверх проверяющего токены компонента.
func NewResolver(verifier domain.TokenVerifier, logger *log.Entry) *Resolver {
	if logger == nil {
		logger = log.WithField("component", "identity-resolver")
	}
	return &Resolver{verifier: verifier, logger: logger}
}

// Resolve возвращает Identity из заголовка Authorization или nil для анонима.
// Операции, требующие Identity, сами проверяют наличие через Require.
func (r *Resolver) Resolve(header string) *domain.Identity {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	token := strings.TrimPrefix(header, bearerPrefix)
	identity, err := r.verifier.Verify(token)
	if err != nil {
		r.logger.WithError(err).Debug("credential rejected, treating request as anonymous")
		return nil
	}

	return &identity
}

// Require возвращает ErrUnauthenticated для анонимного вызывающего.
func Require(identity *domain.Identity) error {
	if identity == nil || identity.ID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}
