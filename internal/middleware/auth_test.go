package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/flix-be/internal/auth"
	"github.com/hongminglow/flix-be/internal/middleware"
	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage/memory"
)

const testJWTSecret = "test-secret-for-middleware-tests"

type fixture struct {
	store   *memory.Store
	tokens  *auth.TokenManager
	calls   *int32
	handler http.Handler
	seen    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	_, err := store.CreateUser(context.Background(), models.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$04$somethinghashed",
	})
	require.NoError(t, err)

	f := &fixture{
		store:  store,
		tokens: auth.NewTokenManager(testJWTSecret, "test", time.Hour),
		calls:  new(int32),
		seen:   &models.User{},
	}
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(f.calls, 1)
		if user, ok := middleware.UserFromContext(r.Context()); ok {
			*f.seen = user
		}
		w.WriteHeader(http.StatusOK)
	})
	f.handler = middleware.RequireAuth(f.tokens, store)(protected)
	return f
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.tokens.Generate(userID)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_ValidToken(t *testing.T) {
	f := newFixture(t)

	apitest.New().
		Handler(f.handler).
		Get("/movies").
		Header("Authorization", "Bearer "+f.token(t, "user-1")).
		Expect(t).
		Status(http.StatusOK).
		End()

	assert.Equal(t, int32(1), atomic.LoadInt32(f.calls))
	assert.Equal(t, "alice", f.seen.Username)
	assert.Empty(t, f.seen.PasswordHash)
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	apitest.New().
		Handler(f.handler).
		Get("/movies").
		Header("Authorization", "bearer "+f.token(t, "user-1")).
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestRequireAuth_RejectsUniformly(t *testing.T) {
	f := newFixture(t)
	expired := auth.NewTokenManager(testJWTSecret, "test", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expiredToken, err := expired.Generate("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "basic scheme", header: "Basic YWxpY2U6cHc="},
		{name: "scheme only", header: "Bearer"},
		{name: "two tokens", header: "Bearer abc def"},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "expired token", header: "Bearer " + expiredToken},
		{name: "unknown subject", header: "Bearer " + f.token(t, "user-404")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := apitest.New().Handler(f.handler).Get("/movies")
			if tt.header != "" {
				req = req.Header("Authorization", tt.header)
			}
			req.Expect(t).
				Status(http.StatusUnauthorized).
				Header("WWW-Authenticate", `Bearer realm="flix"`).
				Assert(jsonpath.Equal("$.message", "unauthorized")).
				Assert(jsonpath.Equal("$.code", float64(http.StatusUnauthorized))).
				End()
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
}

func TestRequireAuth_RemovedUserTokenStopsWorking(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, "user-1")

	apitest.New().Handler(f.handler).Get("/movies").
		Header("Authorization", "Bearer "+token).
		Expect(t).Status(http.StatusOK).End()

	require.NoError(t, f.store.DeleteUser(context.Background(), "alice"))

	apitest.New().Handler(f.handler).Get("/movies").
		Header("Authorization", "Bearer "+token).
		Expect(t).Status(http.StatusUnauthorized).End()

	assert.Equal(t, int32(1), atomic.LoadInt32(f.calls))
}

type brokenResolver struct{}

func (brokenResolver) FindByID(context.Context, string) (models.User, error) {
	return models.User{}, errors.New("connection reset")
}

func TestRequireAuth_StoreFailureIsServerError(t *testing.T) {
	tokens := auth.NewTokenManager(testJWTSecret, "test", time.Hour)
	token, err := tokens.Generate("user-1")
	require.NoError(t, err)

	handler := middleware.RequireAuth(tokens, brokenResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	apitest.New().Handler(handler).Get("/movies").
		Header("Authorization", "Bearer "+token).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.message", "internal server error")).
		End()
}

func TestWithUserStripsHash(t *testing.T) {
	ctx := middleware.WithUser(context.Background(), models.User{ID: "u", PasswordHash: "hash"})
	user, ok := middleware.UserFromContext(ctx)
	require.True(t, ok)
	assert.Empty(t, user.PasswordHash)

	_, ok = middleware.UserFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
