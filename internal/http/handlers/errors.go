package handlers

import (
	"errors"
	"net/http"

	"github.com/hongminglow/flix-be/internal/account"
	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/logutil"
	"github.com/hongminglow/flix-be/internal/storage"
)

// ErrForbidden is returned when the authenticated user acts on another
// user's resources.
var ErrForbidden = errors.New("forbidden")

// writeError maps domain errors onto HTTP responses. Anything unrecognised
// is logged with full detail and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, account.ErrInvalidCredentials.Error())
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "username already taken")
	case errors.Is(err, storage.ErrAlreadyFavorited):
		respond.Error(w, http.StatusBadRequest, "movie already in favorites")
	default:
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Str("http.path", r.URL.Path).Msg("request failed")
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
