package handlers

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/hongminglow/flix-be/internal/account"
	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/middleware"
	"github.com/hongminglow/flix-be/internal/models/dto"
)

// UserHandler serves profile reads, updates and favorites.
type UserHandler struct {
	accounts Accounts
}

// NewUserHandler constructs the handler.
func NewUserHandler(accounts Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Register attaches the user routes behind protect.
func (h *UserHandler) Register(router *httprouter.Router, protect middleware.Middleware) {
	router.Handler(http.MethodGet, "/users/:username", protect(http.HandlerFunc(h.handleGet)))
	router.Handler(http.MethodPut, "/users/:username", protect(http.HandlerFunc(h.handleUpdate)))
	router.Handler(http.MethodPost, "/users/:username/movies/:movieID", protect(http.HandlerFunc(h.handleAddFavorite)))
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")
	user, err := h.accounts.FindByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "user retrieved", user)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")
	if err := requireOwner(r, username); err != nil {
		writeError(w, r, err)
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := account.UpdateInput{
		Username: optional(strings.TrimSpace(req.Username)),
		Email:    optional(strings.TrimSpace(req.Email)),
		Password: optional(req.Password),
	}
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		respond.Validation(w, []respond.FieldError{{Field: "birthday", Message: "must be a date formatted as YYYY-MM-DD"}})
		return
	}
	in.Birthday = birthday

	updated, err := h.accounts.Update(r.Context(), username, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "user updated", updated)
}

func (h *UserHandler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	username := params.ByName("username")
	if err := requireOwner(r, username); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.accounts.AddFavorite(r.Context(), username, params.ByName("movieID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "movie added to favorites", updated)
}

func requireOwner(r *http.Request, username string) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || user.Username != username {
		return ErrForbidden
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
