package middleware

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/logutil"
	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

type contextKey string

const userContextKey contextKey = "user"

var bearerTokenRE = regexp.MustCompile(`^(?i:Bearer) ([^\s]+)$`)

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserResolver loads the account a token subject points at.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser stores user in ctx the way RequireAuth does.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user.Public())
}

// RequireAuth rejects requests without a valid bearer token for an
// existing user. The user is looked up on every request, so a token for a
// removed account stops working immediately. Every rejection gets the same
// 401 body; the reason is only logged.
func RequireAuth(tokens TokenVerifier, users UserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logutil.GetOrDefault(ctx)

			token, ok := bearerToken(r)
			if !ok {
				log.Debug().Msg("auth rejected: missing or malformed authorization header")
				unauthenticated(w)
				return
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				log.Debug().Err(err).Msg("auth rejected: token verification failed")
				unauthenticated(w)
				return
			}
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					log.Debug().Str("user.id", userID).Msg("auth rejected: token subject no longer exists")
					unauthenticated(w)
					return
				}
				log.Error().Err(err).Str("user.id", userID).Msg("auth: resolve user failed")
				respond.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(groups) != 2 {
		return "", false
	}
	return groups[1], true
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="flix"`)
	respond.Error(w, http.StatusUnauthorized, "unauthorized")
}
