package auth

import (
	"strings"
	"time"

	"github.com/frahmantamala/calong-tick/internal/core/common/validation"
)

// SignupDTO is the transport shape used to register the first admin.
type SignupDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// SigninDTO accepts either the username or the email in Username.
type SigninDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type ProfileResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

func (d *SignupDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d SignupDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

func (d *SigninDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
}

func (d SigninDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}
