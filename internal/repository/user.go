package repository

import (
	"context"
	"fmt"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository/dao"
)

var (
	ErrUserExists   = dao.ErrUserExists
	ErrUserNotFound = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByNumeroColegiado(ctx context.Context, numero string) (dao.User, error)
	FindByRole(ctx context.Context, role string) ([]dao.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	DeleteWithVotes(ctx context.Context, id uint) error
	FindProfile(ctx context.Context, userID uint) (*dao.UserProfile, error)
	UpsertProfile(ctx context.Context, profile dao.UserProfile) (dao.UserProfile, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		NumeroColegiado: user.NumeroColegiado,
		NombreCompleto:  user.NombreCompleto,
		Email:           user.Email,
		DPI:             user.DPI,
		FechaNacimiento: user.FechaNacimiento,
		Password:        user.Password,
		Role:            user.Role.String(),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByNumeroColegiado(ctx context.Context, numero string) (domain.User, error) {
	found, err := r.dao.FindByNumeroColegiado(ctx, numero)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByNumeroColegiado -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	found, err := r.dao.FindByRole(ctx, role.String())
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRole -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, r.daoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if err := r.dao.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.DeleteWithVotes(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteWithVotes -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindProfile(ctx context.Context, userID uint) (*domain.Profile, error) {
	found, err := r.dao.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProfile -> %w", err)
	}
	if found == nil {
		return nil, nil
	}

	profile := r.profileDaoToDomain(*found)
	return &profile, nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	saved, err := r.dao.UpsertProfile(ctx, dao.UserProfile{
		UserID:       profile.UserID,
		Licenciatura: profile.Licenciatura,
		Carrera:      profile.Carrera,
		Edad:         profile.Edad,
		Telefono:     profile.Telefono,
		Direccion:    profile.Direccion,
		Ciudad:       profile.Ciudad,
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("r.dao.UpsertProfile -> %w", err)
	}

	return r.profileDaoToDomain(saved), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	role, _ := domain.ParseRole(u.Role)

	return domain.User{
		ID:              u.ID,
		NumeroColegiado: u.NumeroColegiado,
		NombreCompleto:  u.NombreCompleto,
		Email:           u.Email,
		DPI:             u.DPI,
		FechaNacimiento: u.FechaNacimiento,
		Password:        u.Password,
		Role:            role,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (r *UserRepository) profileDaoToDomain(p dao.UserProfile) domain.Profile {
	return domain.Profile{
		UserID:       p.UserID,
		Licenciatura: p.Licenciatura,
		Carrera:      p.Carrera,
		Edad:         p.Edad,
		Telefono:     p.Telefono,
		Direccion:    p.Direccion,
		Ciudad:       p.Ciudad,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
