// Package mongodb stores users and the movie catalog in MongoDB, the
// document layout the catalog was originally published in.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	usersCollection  = "users"
	moviesCollection = "movies"
)

// Store provides MongoDB-backed persistence for users and movies.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	movies *mongo.Collection
}

// NewStore connects to uri, pings the primary and ensures indexes.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		movies: db.Collection(moviesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() {
	if s.client != nil {
		_ = s.client.Disconnect(context.Background())
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_username_unique"),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

// CreateUser inserts a new user document. The unique index on username
// decides concurrent registrations.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// UpdateUser $sets the non-nil fields of changes.
func (s *Store) UpdateUser(ctx context.Context, username string, changes models.UserChanges) (models.User, error) {
	set := updateDocument(changes)
	if len(set) == 0 {
		return s.FindByUsername(ctx, username)
	}
	return s.findOneAndUpdate(ctx, bson.M{"username": username}, bson.M{"$set": set})
}

// AddFavorite pushes movieID only when it is not already in the array, so
// the duplicate check and the write are one server-side operation.
func (s *Store) AddFavorite(ctx context.Context, username, movieID string) (models.User, error) {
	filter := bson.M{"username": username, "favoriteMovies": bson.M{"$ne": movieID}}
	updated, err := s.findOneAndUpdate(ctx, filter, bson.M{"$push": bson.M{"favoriteMovies": movieID}})
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	n, err := s.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return models.User{}, fmt.Errorf("check user: %w", err)
	}
	if n > 0 {
		return models.User{}, storage.ErrAlreadyFavorited
	}
	return models.User{}, storage.ErrNotFound
}

// ListMovies returns up to limit catalog documents in natural order.
func (s *Store) ListMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	cur, err := s.movies.Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	movies := []models.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return movies, nil
}

// InsertMovie stores a catalog document. Used for seeding.
func (s *Store) InsertMovie(ctx context.Context, movie models.Movie) error {
	_, err := s.movies.ReplaceOne(ctx, bson.M{"_id": movie.ID}, movie, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return normalize(user), nil
}

func (s *Store) findOneAndUpdate(ctx context.Context, filter, update bson.M) (models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return models.User{}, storage.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return models.User{}, storage.ErrAlreadyExists
		default:
			return models.User{}, fmt.Errorf("update user: %w", err)
		}
	}
	return normalize(user), nil
}

func updateDocument(changes models.UserChanges) bson.M {
	set := bson.M{}
	if changes.Username != nil {
		set["username"] = *changes.Username
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.Birthday != nil {
		set["birthday"] = *changes.Birthday
	}
	if changes.PasswordHash != nil {
		set["password"] = *changes.PasswordHash
	}
	return set
}

func normalize(user models.User) models.User {
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	return user
}
