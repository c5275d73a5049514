package dto

// UpdateUserRequest is a partial profile update. Empty strings mean the
// field was not supplied.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,max=64,excludesall= /"`
	Password string `json:"password" validate:"omitempty,bcryptlen"`
	Email    string `json:"email" validate:"omitempty,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}
