package repository

import (
	"context"
	"fmt"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository/dao"
)

var ErrAlreadyVoted = dao.ErrAlreadyVoted

type VoteDAO interface {
	Insert(ctx context.Context, vote dao.Vote) (dao.Vote, error)
	CountByCandidate(ctx context.Context, campaignID uint) (map[uint]int64, error)
	CountAllByCandidate(ctx context.Context) (map[uint]int64, error)
	HasVoted(ctx context.Context, userID, campaignID uint) (bool, error)
}

type VoteRepository struct {
	dao VoteDAO
}

func NewVoteRepository(dao VoteDAO) *VoteRepository {
	return &VoteRepository{
		dao: dao,
	}
}

func (r *VoteRepository) Create(ctx context.Context, vote domain.Vote) (domain.Vote, error) {
	created, err := r.dao.Insert(ctx, dao.Vote{
		UserID:      vote.UserID,
		CampaignID:  vote.CampaignID,
		CandidateID: vote.CandidateID,
	})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.Vote{
		ID:          created.ID,
		UserID:      created.UserID,
		CampaignID:  created.CampaignID,
		CandidateID: created.CandidateID,
		CastAt:      created.CastAt,
	}, nil
}

func (r *VoteRepository) CountByCandidate(ctx context.Context, campaignID uint) (map[uint]int64, error) {
	counts, err := r.dao.CountByCandidate(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByCandidate -> %w", err)
	}

	return counts, nil
}

func (r *VoteRepository) CountAllByCandidate(ctx context.Context) (map[uint]int64, error) {
	counts, err := r.dao.CountAllByCandidate(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountAllByCandidate -> %w", err)
	}

	return counts, nil
}

func (r *VoteRepository) HasVoted(ctx context.Context, userID, campaignID uint) (bool, error) {
	voted, err := r.dao.HasVoted(ctx, userID, campaignID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasVoted -> %w", err)
	}

	return voted, nil
}
