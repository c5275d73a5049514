package dto

import "github.com/hongminglow/flix-be/internal/models"

// DateLayout is the wire format for birthdays.
const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64,excludesall= /"`
	Password string `json:"password" validate:"required,bcryptlen"`
	Email    string `json:"email" validate:"required,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
