package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/flix-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrAlreadyFavorited indicates the movie is already in the user's favorites.
var ErrAlreadyFavorited = errors.New("movie already in favorites")

// UserStore captures persistence operations for user accounts.
//
// Implementations enforce username uniqueness themselves; callers never
// check-then-insert. Returned users carry PasswordHash so the account layer
// can verify credentials, and it is that layer's job to strip it.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, username string, changes models.UserChanges) (models.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (models.User, error)
}

// MovieStore captures read access to the movie catalog.
type MovieStore interface {
	ListMovies(ctx context.Context, limit int) ([]models.Movie, error)
}

// Store is a backend serving both users and movies.
type Store interface {
	UserStore
	MovieStore
	Close()
}
