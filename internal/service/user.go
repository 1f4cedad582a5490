package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
	ErrNotAVoter    = errors.New("user is not a voter")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Delete(ctx context.Context, id uint) error
	FindProfile(ctx context.Context, userID uint) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) Me(ctx context.Context, principal domain.Principal) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListVoters(ctx context.Context, principal domain.Principal) ([]domain.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	voters, err := s.repo.FindByRole(ctx, domain.RoleVoter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRole -> %w", err)
	}

	return voters, nil
}

func (s *UserService) ListAdmins(ctx context.Context, principal domain.Principal) ([]domain.User, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	admins, err := s.repo.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRole -> %w", err)
	}

	return admins, nil
}

// DeleteVoter removes a voter with its votes and profile. Administrators can not
// be removed this way.
func (s *UserService) DeleteVoter(ctx context.Context, principal domain.Principal, id uint) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if user.Role != domain.RoleVoter {
		return ErrNotAVoter
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// GetProfile returns the caller with its profile. Profile is nil until the
// voter saves one.
func (s *UserService) GetProfile(ctx context.Context, principal domain.Principal) (domain.UserWithProfile, error) {
	if !principal.IsVoter() {
		return domain.UserWithProfile{}, ErrPermissionDenied
	}

	user, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return domain.UserWithProfile{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	profile, err := s.repo.FindProfile(ctx, principal.ID)
	if err != nil {
		return domain.UserWithProfile{}, fmt.Errorf("s.repo.FindProfile -> %w", err)
	}

	return domain.UserWithProfile{User: user, Profile: profile}, nil
}

func (s *UserService) UpsertProfile(ctx context.Context, principal domain.Principal, profile domain.Profile) (domain.Profile, error) {
	if !principal.IsVoter() {
		return domain.Profile{}, ErrPermissionDenied
	}
	profile.UserID = principal.ID

	saved, err := s.repo.UpsertProfile(ctx, profile)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("s.repo.UpsertProfile -> %w", err)
	}

	return saved, nil
}
