// Package dto defines the request bodies of the auth endpoints.
package dto

// RegisterReq is the body of POST /auth/register. The role is always user.
type RegisterReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginReq is the body of POST /auth/login.
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshReq is the body of POST /auth/refresh and POST /auth/logout.
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// MeRes is the body of GET /auth/me, built from the access token claims only.
type MeRes struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
