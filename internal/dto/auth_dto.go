package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	Role         string       `json:"role"`
	ZoneName     *string      `json:"municipio_id"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"nombre"`
	Role               string    `json:"role"`
	ZoneName           *string   `json:"municipio_id"`
	Active             bool      `json:"is_active"`
	ForcePasswordReset bool      `json:"force_password_reset"`
}

type CheckAuthResponse struct {
	Authenticated bool    `json:"authenticated"`
	Role          string  `json:"role"`
	ZoneName      *string `json:"municipio_id"`
}

type CreateAlcaldeRequest struct {
	Email    string `json:"email"`
	Name     string `json:"nombre"`
	ZoneName string `json:"municipio_id"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"nombre"`
	Role     *string `json:"role"`
	ZoneName *string `json:"municipio_id"`
	Active   *bool   `json:"is_active"`
	Password *string `json:"password"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
