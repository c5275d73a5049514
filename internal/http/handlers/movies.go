package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/middleware"
	"github.com/hongminglow/flix-be/internal/storage"
)

const (
	defaultMovieLimit = 10
	maxMovieLimit     = 100
)

// MovieHandler lists the catalog.
type MovieHandler struct {
	movies storage.MovieStore
}

// NewMovieHandler constructs the handler.
func NewMovieHandler(movies storage.MovieStore) *MovieHandler {
	return &MovieHandler{movies: movies}
}

// Register attaches the movie routes behind protect.
func (h *MovieHandler) Register(router *httprouter.Router, protect middleware.Middleware) {
	router.Handler(http.MethodGet, "/movies", protect(http.HandlerFunc(h.handleList)))
}

func (h *MovieHandler) handleList(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.ListMovies(r.Context(), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "movies retrieved", movies)
}

// parseLimit reads the leading integer of raw, so "5abc" is 5. Anything
// without a positive leading integer gets the default.
func parseLimit(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r")
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return defaultMovieLimit
	}
	digits := strings.TrimLeft(s[:end], "0")
	if digits == "" {
		return defaultMovieLimit
	}
	if len(digits) > 3 {
		return maxMovieLimit
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return defaultMovieLimit
	}
	if n > maxMovieLimit {
		return maxMovieLimit
	}
	return n
}
