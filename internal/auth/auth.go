package auth

import (
	"time"

	adminDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/admin"
	"github.com/golang-jwt/jwt/v5"
)

// Admin is the single administrator account managing employees and
// reviewing time reports.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims represents JWT token claims
type Claims struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and verifies admin bearer tokens.
type TokenGenerator interface {
	GenerateAccessToken(admin *Admin) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

func (a *Admin) ToAuthResponse(token string) AuthResponse {
	return AuthResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Token:    token,
	}
}

func (a *Admin) ToProfileResponse() ProfileResponse {
	return ProfileResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

func ToDataModel(a *Admin) *adminDatamodel.Admin {
	return &adminDatamodel.Admin{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModel(a *adminDatamodel.Admin) *Admin {
	return &Admin{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
