package domain

import "time"

type CampaignState string

const (
	StateEnabled  CampaignState = "habilitada"
	StateDisabled CampaignState = "deshabilitada"
	StateFinished CampaignState = "finalizada"
)

func (s CampaignState) Valid() bool {
	switch s {
	case StateEnabled, StateDisabled, StateFinished:
		return true
	default:
		return false
	}
}

type Campaign struct {
	ID            uint          `json:"id"`
	Title         string        `json:"titulo"`
	Description   string        `json:"descripcion"`
	State         CampaignState `json:"estado"`
	StartsAt      time.Time     `json:"fecha_inicio"`
	EndsAt        time.Time     `json:"fecha_fin"`
	VotesPerVoter int           `json:"cantidad_votos"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsOpenAt reports whether votes may be cast at t. Both window bounds are inclusive
// and a campaign without a window is never open.
func (c Campaign) IsOpenAt(t time.Time) bool {
	if c.State != StateEnabled {
		return false
	}
	if c.StartsAt.IsZero() || c.EndsAt.IsZero() {
		return false
	}

	return !t.Before(c.StartsAt) && !t.After(c.EndsAt)
}

// CampaignPatch carries the fields an admin may change. Nil means unchanged.
type CampaignPatch struct {
	Title       *string
	Description *string
	State       *CampaignState
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Apply returns c with the non-nil fields of the patch set.
func (p CampaignPatch) Apply(c Campaign) Campaign {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.StartsAt != nil {
		c.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		c.EndsAt = *p.EndsAt
	}

	return c
}

type Candidate struct {
	ID         uint      `json:"id"`
	CampaignID uint      `json:"campaign_id"`
	Name       string    `json:"nombre"`
	UserID     *uint     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsLinkedTo reports whether the candidate entry refers to the given user.
func (c Candidate) IsLinkedTo(userID uint) bool {
	return c.UserID != nil && *c.UserID == userID
}

type Vote struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	CampaignID  uint      `json:"campaign_id"`
	CandidateID uint      `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

type CandidateResult struct {
	ID        uint   `json:"id"`
	Name      string `json:"nombre"`
	UserID    *uint  `json:"user_id"`
	VoteCount int64  `json:"voteCount"`
}

type CampaignResults struct {
	Campaign
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int64             `json:"total_votos"`
	HasVoted   *bool             `json:"has_voted,omitempty"`
}

// CandidateSummary is a candidate listed across campaigns.
type CandidateSummary struct {
	CandidateResult
	CampaignID    uint   `json:"campaign_id"`
	CampaignTitle string `json:"campaign_titulo"`
}

type CampaignReport struct {
	ID              uint          `json:"id"`
	Title           string        `json:"titulo"`
	Description     string        `json:"descripcion"`
	State           CampaignState `json:"estado"`
	TotalCandidates int           `json:"totalCandidatos"`
	TotalVotes      int64         `json:"totalVotos"`
	StartsAt        time.Time     `json:"fecha_inicio"`
	EndsAt          time.Time     `json:"fecha_fin"`
}
