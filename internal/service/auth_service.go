package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"todoforum/internal/models"
	"todoforum/internal/repository"
	"todoforum/internal/session"
)

type LoginRequest struct {
	Username  string           `json:"username" validate:"required"`
	Password  string           `json:"password" validate:"required"`
	Birthdate string           `json:"birthdate"`
	Type      models.LoginType `json:"type"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*models.User, error)
	EnsureAdmin(ctx context.Context, username, password string) error
	CurrentUser(ctx context.Context, username string) (session.Identity, error)
}

type authService struct {
	userRepo         repository.UserRepository
	requireBirthdate bool
	log              logrus.FieldLogger
}

// NewAuthService builds the login flow. With requireBirthdate off, birth accounts log in with username and password only.
func NewAuthService(userRepo repository.UserRepository, requireBirthdate bool, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo:         userRepo,
		requireBirthdate: requireBirthdate,
		log:              log,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	if req.Type == models.LoginTypeAdmin {
		return s.loginAdmin(ctx, req)
	}
	return s.loginBirth(ctx, req)
}

func (s *authService) loginAdmin(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := s.userRepo.VerifyPassword(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("failed to verify admin credentials: %w", err)
	}

	if !user.IsAdmin() {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) loginBirth(ctx context.Context, req LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUnknownUsername
	case err != nil:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.LoginType != models.LoginTypeBirth {
		return nil, ErrUnknownUsername
	}

	if err := repository.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidBirthCredentials
	}

	if s.requireBirthdate && (user.Birthdate == nil || *user.Birthdate != req.Birthdate) {
		return nil, ErrInvalidBirthCredentials
	}

	return user, nil
}

// EnsureAdmin creates the admin account when it is missing. An empty password disables seeding.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.log.Warn("admin seeding skipped: ADMIN_USERNAME or ADMIN_PASSWORD is empty")
		return nil
	}

	_, err := s.userRepo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	admin := &models.User{Username: username, LoginType: models.LoginTypeAdmin}
	if err := s.userRepo.CreateUser(ctx, admin, password); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.WithField("username", username).Info("admin account created")
	return nil
}

// CurrentUser resolves a session subject against the user store, so deleted accounts lose access at once.
func (s *authService) CurrentUser(ctx context.Context, username string) (session.Identity, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return session.Identity{}, err
	}

	return session.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.IsAdmin(),
	}, nil
}
