package httpapi

import (
	"context"
	"net/http"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type contextKey int

const identityContextKey contextKey = iota

// IdentityMiddleware разбирает заголовок Authorization и кладёт проверенный
// Identity в контекст запроса. Анонимные запросы проходят дальше без Identity:
// требование аутентификации проверяют сами операции.
func IdentityMiddleware(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolver.Resolve(r.Header.Get("Authorization"))
			if identity != nil {
				r = r.WithContext(context.WithValue(r.Context(), identityContextKey, identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext возвращает Identity запроса или nil для анонима.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return identity
}
