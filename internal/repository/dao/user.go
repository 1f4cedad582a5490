package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserExists   = errors.New("numero_colegiado, dpi or email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	NumeroColegiado string    `gorm:"unique;not null"`
	NombreCompleto  string    `gorm:"not null"`
	Email           string    `gorm:"unique;not null"`
	DPI             string    `gorm:"column:dpi;unique;not null"`
	FechaNacimiento time.Time `gorm:"type:date;not null"`
	Password        string    `gorm:"not null"`
	Role            string    `gorm:"type:varchar(20);not null;default:votante;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserProfile struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"uniqueIndex;not null"`
	User         User `gorm:"constraint:OnDelete:CASCADE"`
	Licenciatura string
	Carrera      string
	Edad         *int
	Telefono     string
	Direccion    string
	Ciudad       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_users_", "users_") {
			return User{}, ErrUserExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByNumeroColegiado(ctx context.Context, numero string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "numero_colegiado = ?", numero)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByRole(ctx context.Context, role string) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteWithVotes removes a user together with its votes and profile, and clears
// candidate entries that referenced it. All of it happens in one transaction.
func (d *UserDAO) DeleteWithVotes(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&UserProfile{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&Candidate{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

// FindProfile returns the profile of a user, or nil when none was created yet.
func (d *UserDAO) FindProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	var profile UserProfile

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&profile)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &profile, nil
}

func (d *UserDAO) UpsertProfile(ctx context.Context, profile UserProfile) (UserProfile, error) {
	result := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"licenciatura", "carrera", "edad", "telefono", "direccion", "ciudad", "updated_at",
			}),
		}).
		Create(&profile)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return UserProfile{}, ErrUserNotFound
		}

		return UserProfile{}, result.Error
	}

	return profile, nil
}
