// Package memory implements the storage contracts in process memory.
// It backs the test suites and `DATABASE_URL=memory://` local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and movies in maps guarded by a single lock, so the
// username uniqueness check and the insert are one atomic step.
type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	byUsername map[string]string
	movies     []models.Movie
}

// NewStore returns an empty store, optionally seeded with catalog movies.
func NewStore(movies ...models.Movie) *Store {
	return &Store{
		users:      make(map[string]models.User),
		byUsername: make(map[string]string),
		movies:     append([]models.Movie(nil), movies...),
	}
}

// Close is a no-op.
func (s *Store) Close() {}

// CreateUser inserts a new user keyed by ID.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return models.User{}, storage.ErrAlreadyExists
	}
	if _, taken := s.users[user.ID]; taken {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.FavoriteMovies = cloneStrings(user.FavoriteMovies)
	s.users[user.ID] = user
	s.byUsername[user.Username] = user.ID
	return clone(user), nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return clone(s.users[id]), nil
}

// FindByID fetches a user by ID.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return clone(user), nil
}

// UpdateUser applies the non-nil fields of changes to the user.
func (s *Store) UpdateUser(ctx context.Context, username string, changes models.UserChanges) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user := s.users[id]

	if changes.Username != nil && *changes.Username != user.Username {
		if _, taken := s.byUsername[*changes.Username]; taken {
			return models.User{}, storage.ErrAlreadyExists
		}
		delete(s.byUsername, user.Username)
		user.Username = *changes.Username
		s.byUsername[user.Username] = id
	}
	if changes.Email != nil {
		user.Email = *changes.Email
	}
	if changes.Birthday != nil {
		b := *changes.Birthday
		user.Birthday = &b
	}
	if changes.PasswordHash != nil {
		user.PasswordHash = *changes.PasswordHash
	}
	s.users[id] = user
	return clone(user), nil
}

// AddFavorite appends movieID unless it is already present.
func (s *Store) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user := s.users[id]
	if user.HasFavorite(movieID) {
		return models.User{}, storage.ErrAlreadyFavorited
	}
	user.FavoriteMovies = append(cloneStrings(user.FavoriteMovies), movieID)
	s.users[id] = user
	return clone(user), nil
}

// DeleteUser removes a user. It is not part of storage.UserStore; tests and
// operators use it to retire accounts.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byUsername, username)
	delete(s.users, id)
	return nil
}

// ListMovies returns up to limit movies in insertion order.
func (s *Store) ListMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.movies) {
		limit = len(s.movies)
	}
	return append([]models.Movie{}, s.movies[:limit]...), nil
}

func clone(u models.User) models.User {
	u.FavoriteMovies = cloneStrings(u.FavoriteMovies)
	if u.Birthday != nil {
		b := *u.Birthday
		u.Birthday = &b
	}
	return u
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
