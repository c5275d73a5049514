package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/hongminglow/flix-be/internal/account"
	"github.com/hongminglow/flix-be/internal/http/respond"
	"github.com/hongminglow/flix-be/internal/logutil"
	"github.com/hongminglow/flix-be/internal/models"
	"github.com/hongminglow/flix-be/internal/models/dto"
)

// Accounts is the subset of account.Service the HTTP layer depends on.
type Accounts interface {
	Register(ctx context.Context, in account.RegisterInput) (models.User, error)
	Login(ctx context.Context, username, password string) (string, models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Update(ctx context.Context, username string, in account.UpdateInput) (models.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (models.User, error)
}

// AuthHandler owns the register/login endpoints.
type AuthHandler struct {
	accounts Accounts
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(router *httprouter.Router) {
	router.Handler(http.MethodPost, "/users", http.HandlerFunc(h.handleRegister))
	router.Handler(http.MethodPost, "/login", http.HandlerFunc(h.handleLogin))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		respond.Validation(w, []respond.FieldError{{Field: "birthday", Message: "must be a date formatted as YYYY-MM-DD"}})
		return
	}

	created, err := h.accounts.Register(r.Context(), account.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Email:    strings.TrimSpace(req.Email),
		Birthday: birthday,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	log := logutil.GetOrDefault(r.Context())
	log.Info().Str("user.id", created.ID).Msg("user registered")
	respond.JSON(w, http.StatusCreated, "user created successfully", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := h.accounts.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token, User: user})
}

func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
