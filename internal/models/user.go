package models

import "time"

// User captures application-facing fields for a registered account.
type User struct {
	ID             string     `json:"id" bson:"_id"`
	Username       string     `json:"username" bson:"username"`
	Email          string     `json:"email" bson:"email"`
	Birthday       *time.Time `json:"birthday,omitempty" bson:"birthday,omitempty"`
	FavoriteMovies []string   `json:"favoriteMovies" bson:"favoriteMovies"`
	PasswordHash   string     `json:"-" bson:"password"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"`
}

// Public returns a copy of u that is safe to hand to other layers.
// The hash is cleared and the favorites slice is never nil.
func (u User) Public() User {
	u.PasswordHash = ""
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	} else {
		u.FavoriteMovies = append([]string(nil), u.FavoriteMovies...)
	}
	return u
}

// HasFavorite reports whether movieID is already in the favorites list.
func (u User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

// UserChanges is a partial update. Nil fields are left untouched.
// PasswordHash must already be the output of the hasher.
type UserChanges struct {
	Username     *string
	Email        *string
	Birthday     *time.Time
	PasswordHash *string
}

// Empty reports whether the update carries no fields at all.
func (c UserChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.Birthday == nil && c.PasswordHash == nil
}
