package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrCandidateHasVotes = errors.New("candidate has votes and cannot be deleted")
)

type Campaign struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"column:titulo;type:varchar(100);not null"`
	Description   string    `gorm:"column:descripcion;type:varchar(500)"`
	State         string    `gorm:"column:estado;type:varchar(20);not null;default:deshabilitada"`
	StartsAt      time.Time `gorm:"column:fecha_inicio;not null"`
	EndsAt        time.Time `gorm:"column:fecha_fin;not null"`
	VotesPerVoter int       `gorm:"column:cantidad_votos;not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

type Candidate struct {
	ID         uint     `gorm:"primaryKey"`
	CampaignID uint     `gorm:"not null;index"`
	Campaign   Campaign `gorm:"constraint:OnDelete:RESTRICT"`
	Name       string   `gorm:"column:nombre;not null"`
	// UserID is a weak reference, no foreign key is declared for it.
	UserID    *uint `gorm:"index"`
	CreatedAt time.Time
}

// CandidateCount is one row of the per-candidate vote aggregation.
type CandidateCount struct {
	CandidateID uint
	Total       int64
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Insert(ctx context.Context, campaign Campaign) (Campaign, error) {
	result := d.db.WithContext(ctx).Create(&campaign)
	if result.Error != nil {
		return Campaign{}, result.Error
	}

	return campaign, nil
}

func (d *CampaignDAO) FindByID(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign

	result := d.db.WithContext(ctx).First(&campaign, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Campaign{}, ErrCampaignNotFound
		}

		return Campaign{}, result.Error
	}

	return campaign, nil
}

func (d *CampaignDAO) FindAll(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign

	result := d.db.WithContext(ctx).Order("id").Find(&campaigns)
	if result.Error != nil {
		return nil, result.Error
	}

	return campaigns, nil
}

// Update applies the given column values and returns the stored row. The row is
// locked before check sees it, and an error from check aborts the transaction.
func (d *CampaignDAO) Update(ctx context.Context, id uint, fields map[string]interface{}, check func(Campaign) error) (Campaign, error) {
	var campaign Campaign

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&campaign, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}

			return err
		}

		if check != nil {
			if err := check(campaign); err != nil {
				return err
			}
		}

		if len(fields) == 0 {
			return nil
		}

		if err := tx.Model(&Campaign{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}

		return tx.First(&campaign, id).Error
	})
	if err != nil {
		return Campaign{}, err
	}

	return campaign, nil
}

// DeleteCascade removes a campaign with its candidates and their votes. Either
// all three deletes commit or none does.
func (d *CampaignDAO) DeleteCascade(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var campaign Campaign
		if err := tx.First(&campaign, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}

			return err
		}

		candidateIDs := tx.Model(&Candidate{}).Select("id").Where("campaign_id = ?", id)
		if err := tx.Where("campaign_id = ?", id).Or("candidate_id IN (?)", candidateIDs).Delete(&Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("campaign_id = ?", id).Delete(&Candidate{}).Error; err != nil {
			return err
		}

		return tx.Delete(&campaign).Error
	})
}

func (d *CampaignDAO) InsertCandidate(ctx context.Context, candidate Candidate) (Candidate, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&candidate)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return Candidate{}, ErrCampaignNotFound
		}

		return Candidate{}, result.Error
	}

	return candidate, nil
}

func (d *CampaignDAO) FindCandidateByID(ctx context.Context, id uint) (Candidate, error) {
	var candidate Candidate

	result := d.db.WithContext(ctx).First(&candidate, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Candidate{}, ErrCandidateNotFound
		}

		return Candidate{}, result.Error
	}

	return candidate, nil
}

func (d *CampaignDAO) FindCandidatesByCampaignID(ctx context.Context, campaignID uint) ([]Candidate, error) {
	var candidates []Candidate

	result := d.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Order("id").Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	return candidates, nil
}

// FindAllCandidates lists every candidate with its campaign loaded.
func (d *CampaignDAO) FindAllCandidates(ctx context.Context) ([]Candidate, error) {
	var candidates []Candidate

	result := d.db.WithContext(ctx).Preload("Campaign").Order("id").Find(&candidates)
	if result.Error != nil {
		return nil, result.Error
	}

	return candidates, nil
}

// DeleteCandidate removes a candidate that has never received a vote.
func (d *CampaignDAO) DeleteCandidate(ctx context.Context, id uint) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate Candidate
		if err := tx.First(&candidate, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCandidateNotFound
			}

			return err
		}

		var votes int64
		if err := tx.Model(&Vote{}).Where("candidate_id = ?", id).Count(&votes).Error; err != nil {
			return err
		}
		if votes > 0 {
			return ErrCandidateHasVotes
		}

		return tx.Delete(&candidate).Error
	})
	if isForeignKeyViolation(err) {
		return ErrCandidateHasVotes
	}

	return err
}
