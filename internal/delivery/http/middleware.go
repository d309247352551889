package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

const sessionHeader = "X-Checkout-Session"

type identityCtxKey struct{}

// IdentityFromContext returns the identity the auth middleware parsed,
// or a zero identity when none was presented.
func IdentityFromContext(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(identityCtxKey{}).(domain.Identity); ok {
		return id
	}
	return domain.Identity{}
}

// AuthMiddleware parses a bearer token into an identity. A missing or
// invalid token is not rejected here; confirmation is where a missing
// identity fails, and every other operation works anonymously.
func AuthMiddleware(secret string, l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil {
				l.Warnf(r.Context(), "auth middleware: invalid token: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			id := domain.Identity{
				Token:  raw,
				UserID: stringClaim(claims, "user_id"),
				Email:  stringClaim(claims, "email"),
			}
			if id.UserID == "" {
				id.UserID = stringClaim(claims, "sub")
			}

			ctx := context.WithValue(r.Context(), identityCtxKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
