// Package account owns the credential lifecycle: registration, login,
// profile updates and favorites. It is the only place plaintext passwords
// are turned into stored hashes.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

// ErrInvalidCredentials is returned by Login for an unknown username and
// for a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Hasher is the password hashing policy.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints bearer tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// RegisterInput carries a new account's fields. Password is plaintext.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// UpdateInput is a partial profile update. Password is plaintext.
type UpdateInput struct {
	Username *string
	Email    *string
	Birthday *time.Time
	Password *string
}

// Service implements account operations on top of a UserStore.
type Service struct {
	users  storage.UserStore
	hasher Hasher
	tokens TokenIssuer

	// dummyHash is compared against on unknown usernames so a miss costs
	// about as much as a wrong password.
	dummyHash string
}

// NewService constructs the service.
func NewService(users storage.UserStore, hasher Hasher, tokens TokenIssuer) (*Service, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}, nil
}

// Register hashes the submitted password and inserts the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:             uuid.NewString(),
		Username:       in.Username,
		Email:          in.Email,
		Birthday:       in.Birthday,
		FavoriteMovies: []string{},
		PasswordHash:   hash,
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created.Public(), nil
}

// Login verifies credentials and issues a token for the user.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", models.User{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", models.User{}, fmt.Errorf("generate token: %w", err)
	}
	return token, user.Public(), nil
}

// FindByUsername returns the public view of a user.
func (s *Service) FindByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// FindByID returns the public view of a user.
func (s *Service) FindByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// Update applies a partial update. The password is re-hashed only when one
// is supplied. An update with no fields returns the current profile.
func (s *Service) Update(ctx context.Context, username string, in UpdateInput) (models.User, error) {
	changes := models.UserChanges{
		Username: in.Username,
		Email:    in.Email,
		Birthday: in.Birthday,
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return models.User{}, err
		}
		changes.PasswordHash = &hash
	}
	if changes.Empty() {
		return s.FindByUsername(ctx, username)
	}
	updated, err := s.users.UpdateUser(ctx, username, changes)
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated.Public(), nil
}

// AddFavorite records movieID in the user's favorites. Movie ids are not
// checked against the catalog.
func (s *Service) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	updated, err := s.users.AddFavorite(ctx, username, movieID)
	if err != nil {
		return models.User{}, fmt.Errorf("add favorite: %w", err)
	}
	return updated.Public(), nil
}
