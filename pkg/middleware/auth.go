package middleware

import (
	"net/http"
	"strings"

	"github.com/telascatalogo/telas/pkg/auth"
	"github.com/telascatalogo/telas/pkg/logger"
	"github.com/telascatalogo/telas/pkg/response"
)

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the verified claims in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("auth: rejected token", "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
