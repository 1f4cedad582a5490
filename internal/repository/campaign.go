package repository

import (
	"context"
	"fmt"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository/dao"
)

var (
	ErrCampaignNotFound  = dao.ErrCampaignNotFound
	ErrCandidateNotFound = dao.ErrCandidateNotFound
	ErrCandidateHasVotes = dao.ErrCandidateHasVotes
)

type CampaignDAO interface {
	Insert(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	FindByID(ctx context.Context, id uint) (dao.Campaign, error)
	FindAll(ctx context.Context) ([]dao.Campaign, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}, check func(dao.Campaign) error) (dao.Campaign, error)
	DeleteCascade(ctx context.Context, id uint) error
	InsertCandidate(ctx context.Context, candidate dao.Candidate) (dao.Candidate, error)
	FindCandidateByID(ctx context.Context, id uint) (dao.Candidate, error)
	FindCandidatesByCampaignID(ctx context.Context, campaignID uint) ([]dao.Candidate, error)
	FindAllCandidates(ctx context.Context) ([]dao.Candidate, error)
	DeleteCandidate(ctx context.Context, id uint) error
}

type CampaignRepository struct {
	dao CampaignDAO
}

func NewCampaignRepository(dao CampaignDAO) *CampaignRepository {
	return &CampaignRepository{
		dao: dao,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	created, err := r.dao.Insert(ctx, dao.Campaign{
		Title:         campaign.Title,
		Description:   campaign.Description,
		State:         string(campaign.State),
		StartsAt:      campaign.StartsAt,
		EndsAt:        campaign.EndsAt,
		VotesPerVoter: campaign.VotesPerVoter,
	})
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id uint) (domain.Campaign, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CampaignRepository) FindAll(ctx context.Context) ([]domain.Campaign, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	campaigns := make([]domain.Campaign, 0, len(found))
	for _, c := range found {
		campaigns = append(campaigns, r.daoToDomain(c))
	}

	return campaigns, nil
}

func (r *CampaignRepository) Update(ctx context.Context, id uint, patch domain.CampaignPatch, check func(domain.Campaign) error) (domain.Campaign, error) {
	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["titulo"] = *patch.Title
	}
	if patch.Description != nil {
		fields["descripcion"] = *patch.Description
	}
	if patch.State != nil {
		fields["estado"] = string(*patch.State)
	}
	if patch.StartsAt != nil {
		fields["fecha_inicio"] = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		fields["fecha_fin"] = *patch.EndsAt
	}

	var daoCheck func(dao.Campaign) error
	if check != nil {
		daoCheck = func(current dao.Campaign) error {
			return check(r.daoToDomain(current))
		}
	}

	updated, err := r.dao.Update(ctx, id, fields, daoCheck)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteCascade -> %w", err)
	}

	return nil
}

func (r *CampaignRepository) CreateCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	created, err := r.dao.InsertCandidate(ctx, dao.Candidate{
		CampaignID: candidate.CampaignID,
		Name:       candidate.Name,
		UserID:     candidate.UserID,
	})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.InsertCandidate -> %w", err)
	}

	return r.candidateDaoToDomain(created), nil
}

func (r *CampaignRepository) FindCandidateByID(ctx context.Context, id uint) (domain.Candidate, error) {
	found, err := r.dao.FindCandidateByID(ctx, id)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("r.dao.FindCandidateByID -> %w", err)
	}

	return r.candidateDaoToDomain(found), nil
}

func (r *CampaignRepository) FindCandidatesByCampaignID(ctx context.Context, campaignID uint) ([]domain.Candidate, error) {
	found, err := r.dao.FindCandidatesByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCandidatesByCampaignID -> %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(found))
	for _, c := range found {
		candidates = append(candidates, r.candidateDaoToDomain(c))
	}

	return candidates, nil
}

// FindAllCandidates returns every candidate with its campaign title. Vote counts
// are left at zero.
func (r *CampaignRepository) FindAllCandidates(ctx context.Context) ([]domain.CandidateSummary, error) {
	found, err := r.dao.FindAllCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllCandidates -> %w", err)
	}

	summaries := make([]domain.CandidateSummary, 0, len(found))
	for _, c := range found {
		summaries = append(summaries, domain.CandidateSummary{
			CandidateResult: domain.CandidateResult{
				ID:     c.ID,
				Name:   c.Name,
				UserID: c.UserID,
			},
			CampaignID:    c.CampaignID,
			CampaignTitle: c.Campaign.Title,
		})
	}

	return summaries, nil
}

func (r *CampaignRepository) DeleteCandidate(ctx context.Context, id uint) error {
	if err := r.dao.DeleteCandidate(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteCandidate -> %w", err)
	}

	return nil
}

func (r *CampaignRepository) daoToDomain(c dao.Campaign) domain.Campaign {
	return domain.Campaign{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		State:         domain.CampaignState(c.State),
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		VotesPerVoter: c.VotesPerVoter,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r *CampaignRepository) candidateDaoToDomain(c dao.Candidate) domain.Candidate {
	return domain.Candidate{
		ID:         c.ID,
		CampaignID: c.CampaignID,
		Name:       c.Name,
		UserID:     c.UserID,
		CreatedAt:  c.CreatedAt,
	}
}
