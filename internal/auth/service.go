package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/calong-tick/internal"
	adminDatamodel "github.com/frahmantamala/calong-tick/internal/core/datamodel/admin"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	Count(ctx context.Context) (int64, error)
	// CreateFirst inserts admin only when no admin exists yet, returning
	// internal.ErrAdminExists otherwise.
	CreateFirst(ctx context.Context, admin *adminDatamodel.Admin) error
	GetByLogin(ctx context.Context, login string) (*adminDatamodel.Admin, error)
	GetByID(ctx context.Context, id int64) (*adminDatamodel.Admin, error)
}

type ServiceAPI interface {
	Exists(ctx context.Context) (bool, error)
	Signup(ctx context.Context, dto SignupDTO) (*AuthResponse, error)
	Signin(ctx context.Context, dto SigninDTO) (*AuthResponse, error)
	Profile(ctx context.Context, adminID int64) (*ProfileResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// Service is the admin auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func (s *Service) Exists(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count admins", "error", err)
		return false, internal.NewInternalError("failed to check admin existence", err)
	}
	return count > 0, nil
}

// Signup registers the one and only admin account.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*AuthResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	record := &adminDatamodel.Admin{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
	}

	if err := s.repo.CreateFirst(ctx, record); err != nil {
		if errors.Is(err, internal.ErrAdminExists) || errors.Is(err, internal.ErrAdminDuplicate) {
			s.logger.Warn("admin signup rejected", "username", dto.Username, "error", err)
			return nil, err
		}
		s.logger.Error("failed to create admin", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create admin", err)
	}

	admin := FromDataModel(record)
	token, err := s.tokenGenerator.GenerateAccessToken(admin)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("admin account created", "admin_id", admin.ID, "username", admin.Username)
	resp := admin.ToAuthResponse(token)
	return &resp, nil
}

// Signin authenticates by username or email. Unknown logins and wrong
// passwords produce the same error.
func (s *Service) Signin(ctx context.Context, dto SigninDTO) (*AuthResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByLogin(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to load admin", "error", err)
		return nil, internal.NewInternalError("failed to sign in", err)
	}
	if record == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("admin signin failed", "admin_id", record.ID)
		return nil, internal.ErrInvalidCredentials
	}

	admin := FromDataModel(record)
	token, err := s.tokenGenerator.GenerateAccessToken(admin)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	resp := admin.ToAuthResponse(token)
	return &resp, nil
}

func (s *Service) Profile(ctx context.Context, adminID int64) (*ProfileResponse, error) {
	record, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		s.logger.Error("failed to load admin profile", "admin_id", adminID, "error", err)
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	if record == nil {
		return nil, internal.ErrAdminNotFound
	}

	resp := FromDataModel(record).ToProfileResponse()
	return &resp, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
