package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository"
)

var (
	ErrUserExists       = repository.ErrUserExists
	ErrWrongCredentials = errors.New("invalid credentials")
	ErrPermissionDenied = errors.New("permission denied")
	ErrPasswordTooLong  = bcrypt.ErrPasswordTooLong
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByNumeroColegiado(ctx context.Context, numero string) (domain.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register creates a voter. The role is always votante whatever the caller sent.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	user.Role = domain.RoleVoter

	return s.create(ctx, user)
}

// CreateAdmin lets an administrator create another administrator.
func (s *AuthService) CreateAdmin(ctx context.Context, principal domain.Principal, user domain.User) (domain.User, error) {
	if !principal.IsAdmin() {
		return domain.User{}, ErrPermissionDenied
	}
	user.Role = domain.RoleAdmin

	return s.create(ctx, user)
}

// EnsureAdmin creates the administrator described by user, or resets its
// password when one with the same numero_colegiado already exists. It reports
// whether a new user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, user domain.User) (domain.User, bool, error) {
	existing, err := s.repo.FindByNumeroColegiado(ctx, user.NumeroColegiado)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, false, fmt.Errorf("s.repo.FindByNumeroColegiado -> %w", err)
	}

	if err != nil {
		user.Role = domain.RoleAdmin
		created, err := s.create(ctx, user)
		if err != nil {
			return domain.User{}, false, err
		}

		return created, true, nil
	}

	if existing.Role != domain.RoleAdmin {
		return domain.User{}, false, ErrPermissionDenied
	}

	hash, err := HashPassword(user.Password)
	if err != nil {
		return domain.User{}, false, err
	}

	if err = s.repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return domain.User{}, false, fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}
	existing.Password = hash

	return existing, false, nil
}

func (s *AuthService) create(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := HashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Login checks the password and, for voters, the DPI and birth date. Every
// mismatch yields the same ErrWrongCredentials.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	user, err := s.repo.FindByNumeroColegiado(ctx, creds.NumeroColegiado)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrWrongCredentials
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByNumeroColegiado -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return domain.User{}, ErrWrongCredentials
	}

	if !user.Role.Valid() {
		return domain.User{}, ErrWrongCredentials
	}

	if user.Role == domain.RoleVoter || creds.DPI != "" || !creds.FechaNacimiento.IsZero() {
		if user.DPI != creds.DPI || !domain.SameDate(user.FechaNacimiento, creds.FechaNacimiento) {
			return domain.User{}, ErrWrongCredentials
		}
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}
