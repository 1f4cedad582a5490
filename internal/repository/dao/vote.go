package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyVoted = errors.New("user already voted in this campaign")

const voteUniqueIndex = "idx_votes_user_campaign"

type Vote struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_votes_user_campaign,priority:1"`
	User        User      `gorm:"constraint:OnDelete:RESTRICT"`
	CampaignID  uint      `gorm:"not null;uniqueIndex:idx_votes_user_campaign,priority:2"`
	Campaign    Campaign  `gorm:"constraint:OnDelete:RESTRICT"`
	CandidateID uint      `gorm:"not null;index"`
	Candidate   Candidate `gorm:"constraint:OnDelete:RESTRICT"`
	CastAt      time.Time `gorm:"autoCreateTime;not null"`
}

type VoteDAO struct {
	db *gorm.DB
}

func NewVoteDAO(db *gorm.DB) *VoteDAO {
	return &VoteDAO{
		db: db,
	}
}

// Insert appends a vote. The unique index on (user_id, campaign_id) is the only
// guard against a second vote by the same user.
func (d *VoteDAO) Insert(ctx context.Context, vote Vote) (Vote, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&vote)
	if result.Error != nil {
		if isUniqueViolation(result.Error, voteUniqueIndex) {
			return Vote{}, ErrAlreadyVoted
		}
		if isForeignKeyViolation(result.Error) {
			return Vote{}, ErrCandidateNotFound
		}

		return Vote{}, result.Error
	}

	return vote, nil
}

// CountByCandidate returns the number of votes per candidate of a campaign.
// Candidates without votes are absent from the map.
func (d *VoteDAO) CountByCandidate(ctx context.Context, campaignID uint) (map[uint]int64, error) {
	return d.count(d.db.WithContext(ctx).Where("campaign_id = ?", campaignID))
}

// CountAllByCandidate is CountByCandidate across every campaign.
func (d *VoteDAO) CountAllByCandidate(ctx context.Context) (map[uint]int64, error) {
	return d.count(d.db.WithContext(ctx))
}

func (d *VoteDAO) count(db *gorm.DB) (map[uint]int64, error) {
	var rows []CandidateCount

	result := db.Model(&Vote{}).
		Select("candidate_id, COUNT(id) AS total").
		Group("candidate_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CandidateID] = row.Total
	}

	return counts, nil
}

func (d *VoteDAO) HasVoted(ctx context.Context, userID, campaignID uint) (bool, error) {
	var n int64

	result := d.db.WithContext(ctx).Model(&Vote{}).
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Count(&n)
	if result.Error != nil {
		return false, result.Error
	}

	return n > 0, nil
}
