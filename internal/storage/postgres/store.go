package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

const userColumns = `id, username, email, birthday, favorite_movies, password_hash, created_at`

// Store provides Postgres-backed persistence for users and movies.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			birthday DATE,
			favorite_movies TEXT[] NOT NULL DEFAULT '{}',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS movies_title_idx ON movies ((doc->>'title'));`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row. The username unique constraint decides
// concurrent registrations.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (id, username, email, birthday, favorite_movies, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	favorites := user.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	row := s.pool.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.Birthday, favorites, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// UpdateUser applies a partial update. COALESCE keeps columns whose
// parameter is NULL.
func (s *Store) UpdateUser(ctx context.Context, username string, changes models.UserChanges) (models.User, error) {
	query := `
		UPDATE users SET
			username = COALESCE($2, username),
			email = COALESCE($3, email),
			birthday = COALESCE($4, birthday),
			password_hash = COALESCE($5, password_hash)
		WHERE username = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, username, changes.Username, changes.Email, changes.Birthday, changes.PasswordHash)
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return updated, nil
}

// AddFavorite appends movieID in a single guarded statement so two
// concurrent adds of the same movie cannot both succeed.
func (s *Store) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	query := `
		UPDATE users SET favorite_movies = array_append(favorite_movies, $2)
		WHERE username = $1 AND NOT ($2 = ANY(favorite_movies))
		RETURNING ` + userColumns
	updated, err := scanUser(s.pool.QueryRow(ctx, query, username, movieID))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists); err != nil {
		return models.User{}, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return models.User{}, storage.ErrAlreadyFavorited
	}
	return models.User{}, storage.ErrNotFound
}

// ListMovies returns up to limit catalog documents ordered by insertion.
func (s *Store) ListMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM movies ORDER BY created_at, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movie, err := decodeMovie(id, doc)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// InsertMovie stores a catalog document. Used for seeding.
func (s *Store) InsertMovie(ctx context.Context, movie models.Movie) error {
	doc, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("encode movie: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO movies (id, doc) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, movie.ID, doc)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func decodeMovie(id string, doc []byte) (models.Movie, error) {
	var movie models.Movie
	if err := json.Unmarshal(doc, &movie); err != nil {
		return models.Movie{}, fmt.Errorf("decode movie %s: %w", id, err)
	}
	movie.ID = id
	return movie, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user     models.User
		birthday *time.Time
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &birthday, &user.FavoriteMovies, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Birthday = birthday
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
