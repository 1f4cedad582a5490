package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository"
)

var (
	ErrCampaignNotFound       = repository.ErrCampaignNotFound
	ErrCandidateNotFound      = repository.ErrCandidateNotFound
	ErrCandidateHasVotes      = repository.ErrCandidateHasVotes
	ErrAlreadyVoted           = repository.ErrAlreadyVoted
	ErrCampaignNotOpen        = errors.New("campaign is not open for voting")
	ErrCandidateNotInCampaign = errors.New("candidate does not belong to this campaign")
	ErrSelfVote               = errors.New("candidates can not vote for themselves")
	ErrInvalidWindow          = errors.New("fecha_fin must be after fecha_inicio")
	ErrInvalidState           = errors.New("invalid campaign state")
	ErrCandidateNameRequired  = errors.New("nombre or userId is required")
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	FindByID(ctx context.Context, id uint) (domain.Campaign, error)
	FindAll(ctx context.Context) ([]domain.Campaign, error)
	// Update runs check against the current row while it is locked and only
	// writes the patch when check returns nil.
	Update(ctx context.Context, id uint, patch domain.CampaignPatch, check func(current domain.Campaign) error) (domain.Campaign, error)
	Delete(ctx context.Context, id uint) error
	CreateCandidate(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	FindCandidateByID(ctx context.Context, id uint) (domain.Candidate, error)
	FindCandidatesByCampaignID(ctx context.Context, campaignID uint) ([]domain.Candidate, error)
	FindAllCandidates(ctx context.Context) ([]domain.CandidateSummary, error)
	DeleteCandidate(ctx context.Context, id uint) error
}

type VoteRepository interface {
	Create(ctx context.Context, vote domain.Vote) (domain.Vote, error)
	CountByCandidate(ctx context.Context, campaignID uint) (map[uint]int64, error)
	CountAllByCandidate(ctx context.Context) (map[uint]int64, error)
	HasVoted(ctx context.Context, userID, campaignID uint) (bool, error)
}

type VoterLookup interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type CampaignService struct {
	repo     CampaignRepository
	voteRepo VoteRepository
	userRepo VoterLookup
	now      func() time.Time
}

type CampaignOption func(*CampaignService)

// WithClock replaces the clock used to decide whether a campaign is open.
func WithClock(now func() time.Time) CampaignOption {
	return func(s *CampaignService) {
		s.now = now
	}
}

func NewCampaignService(repo CampaignRepository, voteRepo VoteRepository, userRepo VoterLookup, opts ...CampaignOption) *CampaignService {
	s := &CampaignService{
		repo:     repo,
		voteRepo: voteRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CastVote records the principal's vote for candidateID in campaignID. A second
// vote in the same campaign is rejected by the store with ErrAlreadyVoted.
func (s *CampaignService) CastVote(ctx context.Context, principal domain.Principal, campaignID, candidateID uint) (domain.Vote, error) {
	if !principal.IsVoter() {
		return domain.Vote{}, ErrPermissionDenied
	}

	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !campaign.IsOpenAt(s.now()) {
		return domain.Vote{}, ErrCampaignNotOpen
	}

	candidate, err := s.repo.FindCandidateByID(ctx, candidateID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.repo.FindCandidateByID -> %w", err)
	}
	if candidate.CampaignID != campaign.ID {
		return domain.Vote{}, ErrCandidateNotInCampaign
	}

	if candidate.IsLinkedTo(principal.ID) {
		return domain.Vote{}, ErrSelfVote
	}

	vote, err := s.voteRepo.Create(ctx, domain.Vote{
		UserID:      principal.ID,
		CampaignID:  campaign.ID,
		CandidateID: candidate.ID,
	})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.voteRepo.Create -> %w", err)
	}

	return vote, nil
}

// GetCampaignResults computes the tally of a campaign from the vote rows.
func (s *CampaignService) GetCampaignResults(ctx context.Context, campaignID uint) (domain.CampaignResults, error) {
	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return domain.CampaignResults{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return s.results(ctx, campaign)
}

// CampaignDetail is GetCampaignResults plus, for voters, whether they voted.
func (s *CampaignService) CampaignDetail(ctx context.Context, principal domain.Principal, campaignID uint) (domain.CampaignResults, error) {
	res, err := s.GetCampaignResults(ctx, campaignID)
	if err != nil {
		return domain.CampaignResults{}, err
	}

	if principal.IsVoter() {
		voted, err := s.voteRepo.HasVoted(ctx, principal.ID, campaignID)
		if err != nil {
			return domain.CampaignResults{}, fmt.Errorf("s.voteRepo.HasVoted -> %w", err)
		}
		res.HasVoted = &voted
	}

	return res, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context) ([]domain.CampaignResults, error) {
	campaigns, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	list := make([]domain.CampaignResults, 0, len(campaigns))
	for _, c := range campaigns {
		res, err := s.results(ctx, c)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}

	return list, nil
}

func (s *CampaignService) results(ctx context.Context, campaign domain.Campaign) (domain.CampaignResults, error) {
	candidates, err := s.repo.FindCandidatesByCampaignID(ctx, campaign.ID)
	if err != nil {
		return domain.CampaignResults{}, fmt.Errorf("s.repo.FindCandidatesByCampaignID -> %w", err)
	}

	counts, err := s.voteRepo.CountByCandidate(ctx, campaign.ID)
	if err != nil {
		return domain.CampaignResults{}, fmt.Errorf("s.voteRepo.CountByCandidate -> %w", err)
	}

	return domain.Tally(campaign, candidates, counts), nil
}

func (s *CampaignService) CreateCampaign(ctx context.Context, principal domain.Principal, campaign domain.Campaign) (domain.Campaign, error) {
	if !principal.IsAdmin() {
		return domain.Campaign{}, ErrPermissionDenied
	}

	if campaign.State == "" {
		campaign.State = domain.StateDisabled
	}
	if !campaign.State.Valid() {
		return domain.Campaign{}, ErrInvalidState
	}
	if !campaign.EndsAt.After(campaign.StartsAt) {
		return domain.Campaign{}, ErrInvalidWindow
	}
	if campaign.VotesPerVoter < 1 {
		campaign.VotesPerVoter = 1
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, principal domain.Principal, campaignID uint, patch domain.CampaignPatch) (domain.Campaign, error) {
	if !principal.IsAdmin() {
		return domain.Campaign{}, ErrPermissionDenied
	}

	if patch.State != nil && !patch.State.Valid() {
		return domain.Campaign{}, ErrInvalidState
	}

	updated, err := s.repo.Update(ctx, campaignID, patch, func(current domain.Campaign) error {
		merged := patch.Apply(current)
		if !merged.EndsAt.After(merged.StartsAt) {
			return ErrInvalidWindow
		}

		return nil
	})
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteCampaign removes the campaign, its candidates and their votes atomically.
func (s *CampaignService) DeleteCampaign(ctx context.Context, principal domain.Principal, campaignID uint) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, campaignID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// AddCandidate adds a candidate to a campaign. When the candidate is linked to a
// voter and has no name, the voter's full name is used.
func (s *CampaignService) AddCandidate(ctx context.Context, principal domain.Principal, campaignID uint, candidate domain.Candidate) (domain.Candidate, error) {
	if !principal.IsAdmin() {
		return domain.Candidate{}, ErrPermissionDenied
	}

	if _, err := s.repo.FindByID(ctx, campaignID); err != nil {
		return domain.Candidate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	candidate.Name = strings.TrimSpace(candidate.Name)
	if candidate.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *candidate.UserID)
		if err != nil {
			return domain.Candidate{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
		}
		if user.Role != domain.RoleVoter {
			return domain.Candidate{}, ErrNotAVoter
		}
		if candidate.Name == "" {
			candidate.Name = user.NombreCompleto
		}
	}
	if candidate.Name == "" {
		return domain.Candidate{}, ErrCandidateNameRequired
	}
	candidate.CampaignID = campaignID

	created, err := s.repo.CreateCandidate(ctx, candidate)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("s.repo.CreateCandidate -> %w", err)
	}

	return created, nil
}

// ListCandidates returns every candidate of every campaign with its vote count.
func (s *CampaignService) ListCandidates(ctx context.Context, principal domain.Principal) ([]domain.CandidateSummary, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	candidates, err := s.repo.FindAllCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllCandidates -> %w", err)
	}

	counts, err := s.voteRepo.CountAllByCandidate(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.voteRepo.CountAllByCandidate -> %w", err)
	}

	for i := range candidates {
		candidates[i].VoteCount = counts[candidates[i].ID]
	}

	return candidates, nil
}

// DeleteCandidate removes a candidate only while it has no votes.
func (s *CampaignService) DeleteCandidate(ctx context.Context, principal domain.Principal, candidateID uint) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	if err := s.repo.DeleteCandidate(ctx, candidateID); err != nil {
		return fmt.Errorf("s.repo.DeleteCandidate -> %w", err)
	}

	return nil
}
