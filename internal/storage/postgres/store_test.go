package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestDecodeMovie(t *testing.T) {
	movie, err := decodeMovie("m1", []byte(`{"title":"Blacksmith Scene","year":1893,"imdb":{"rating":6.2,"votes":1189,"id":5}}`))
	require.NoError(t, err)
	assert.Equal(t, "m1", movie.ID)
	assert.Equal(t, "Blacksmith Scene", movie.Title)
	assert.Equal(t, 1893, movie.Year)
	require.NotNil(t, movie.IMDb)
	assert.Equal(t, 6.2, movie.IMDb.Rating)

	movie, err = decodeMovie("m3", []byte(`{"title":"The Great Train Robbery","tomatoes":{"critic":{"rating":7.6,"numReviews":6,"meter":100},"lastUpdated":"2015-08-08T19:16:10Z"},"num_mflix_comments":2}`))
	require.NoError(t, err)
	assert.Equal(t, 2, movie.NumMflixComments)
	require.NotNil(t, movie.Tomatoes)
	require.NotNil(t, movie.Tomatoes.Critic)
	assert.Equal(t, 100, movie.Tomatoes.Critic.Meter)
	require.NotNil(t, movie.Tomatoes.LastUpdated)

	_, err = decodeMovie("m2", []byte(`{not json`))
	assert.Error(t, err)
}

// TestStoreIntegration runs the store against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_POSTGRES_INTEGRATION") != "true" {
		t.Skip("set RUN_POSTGRES_INTEGRATION=true to run this integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	require.NotEmpty(t, dbURL, "DATABASE_URL is required")

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	username := fmt.Sprintf("pgtest_%d", time.Now().UnixNano())
	birthday := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)

	t.Run("create and conflict", func(t *testing.T) {
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.CreateUser(ctx, models.User{
					ID:           uuid.NewString(),
					Username:     username,
					Email:        username + "@example.com",
					Birthday:     &birthday,
					PasswordHash: "hash",
				})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
				} else if errors.Is(err, storage.ErrAlreadyExists) {
					conflicts++
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
		assert.Equal(t, 3, conflicts)
	})

	t.Run("find", func(t *testing.T) {
		byName, err := store.FindByUsername(ctx, username)
		require.NoError(t, err)
		byID, err := store.FindByID(ctx, byName.ID)
		require.NoError(t, err)
		assert.Equal(t, byName.Username, byID.Username)
		assert.Equal(t, "hash", byID.PasswordHash)
		require.NotNil(t, byID.Birthday)
		assert.Equal(t, birthday.Format("2006-01-02"), byID.Birthday.Format("2006-01-02"))

		_, err = store.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update keeps unset columns", func(t *testing.T) {
		email := "changed_" + username + "@example.com"
		updated, err := store.UpdateUser(ctx, username, models.UserChanges{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, email, updated.Email)
		assert.Equal(t, "hash", updated.PasswordHash)
		require.NotNil(t, updated.Birthday)
	})

	t.Run("favorites", func(t *testing.T) {
		u, err := store.AddFavorite(ctx, username, "movieX")
		require.NoError(t, err)
		assert.Equal(t, []string{"movieX"}, u.FavoriteMovies)

		_, err = store.AddFavorite(ctx, username, "movieX")
		assert.ErrorIs(t, err, storage.ErrAlreadyFavorited)

		_, err = store.AddFavorite(ctx, "ghost_"+username, "movieX")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("movies", func(t *testing.T) {
		require.NoError(t, store.InsertMovie(ctx, models.Movie{ID: "pgtest-" + username, Title: "The Great Train Robbery"}))
		movies, err := store.ListMovies(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, movies, 1)
	})
}
