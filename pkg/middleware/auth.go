package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
)

// TokenValidator is satisfied by *auth.Manager.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid bearer token and injects the
// caller's user id into the request context. It fails closed: the wrapped
// handler never runs for an unauthenticated request.
func Auth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.Unauthorized(w, "Token is missing")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err.Error())
				response.Unauthorized(w, "Token is invalid")
				return
			}

			ctx := auth.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts <token> from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
