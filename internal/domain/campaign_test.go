package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaign_IsOpenAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		campaign Campaign
		at       time.Time
		want     bool
	}{
		{
			name:     "enabled inside window",
			campaign: Campaign{State: StateEnabled, StartsAt: start, EndsAt: end},
			at:       start.Add(time.Hour),
			want:     true,
		},
		{
			name:     "start bound is inclusive",
			campaign: Campaign{State: StateEnabled, StartsAt: start, EndsAt: end},
			at:       start,
			want:     true,
		},
		{
			name:     "end bound is inclusive",
			campaign: Campaign{State: StateEnabled, StartsAt: start, EndsAt: end},
			at:       end,
			want:     true,
		},
		{
			name:     "before window",
			campaign: Campaign{State: StateEnabled, StartsAt: start, EndsAt: end},
			at:       start.Add(-time.Second),
			want:     false,
		},
		{
			name:     "after window",
			campaign: Campaign{State: StateEnabled, StartsAt: start, EndsAt: end},
			at:       end.Add(time.Second),
			want:     false,
		},
		{
			name:     "disabled inside window",
			campaign: Campaign{State: StateDisabled, StartsAt: start, EndsAt: end},
			at:       start.Add(time.Hour),
			want:     false,
		},
		{
			name:     "finished inside window",
			campaign: Campaign{State: StateFinished, StartsAt: start, EndsAt: end},
			at:       start.Add(time.Hour),
			want:     false,
		},
		{
			name:     "no window",
			campaign: Campaign{State: StateEnabled},
			at:       start,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.campaign.IsOpenAt(tt.at))
		})
	}
}

func TestCampaignState_Valid(t *testing.T) {
	assert.True(t, StateEnabled.Valid())
	assert.True(t, StateDisabled.Valid())
	assert.True(t, StateFinished.Valid())
	assert.False(t, CampaignState("abierta").Valid())
	assert.False(t, CampaignState("").Valid())
}

func TestCampaignPatch_Apply(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	c := Campaign{ID: 3, Title: "Junta", Description: "2026", State: StateDisabled, StartsAt: start, EndsAt: start.Add(time.Hour)}

	assert.Equal(t, c, CampaignPatch{}.Apply(c))

	title := "Junta directiva"
	state := StateEnabled
	end := start.Add(2 * time.Hour)
	got := CampaignPatch{Title: &title, State: &state, EndsAt: &end}.Apply(c)

	assert.Equal(t, "Junta directiva", got.Title)
	assert.Equal(t, "2026", got.Description)
	assert.Equal(t, StateEnabled, got.State)
	assert.Equal(t, start, got.StartsAt)
	assert.Equal(t, end, got.EndsAt)
	assert.Equal(t, "Junta", c.Title)
}

func TestCandidate_IsLinkedTo(t *testing.T) {
	userID := uint(7)

	assert.True(t, Candidate{UserID: &userID}.IsLinkedTo(7))
	assert.False(t, Candidate{UserID: &userID}.IsLinkedTo(8))
	assert.False(t, Candidate{}.IsLinkedTo(7))
}

func TestTally(t *testing.T) {
	campaign := Campaign{ID: 1, Title: "Junta directiva"}
	candidates := []Candidate{
		{ID: 10, CampaignID: 1, Name: "Ana"},
		{ID: 11, CampaignID: 1, Name: "Luis"},
		{ID: 12, CampaignID: 1, Name: "Marta"},
	}

	res := Tally(campaign, candidates, map[uint]int64{10: 3, 12: 1})

	assert.Equal(t, campaign, res.Campaign)
	assert.Equal(t, int64(4), res.TotalVotes)
	assert.Equal(t, []CandidateResult{
		{ID: 10, Name: "Ana", VoteCount: 3},
		{ID: 11, Name: "Luis", VoteCount: 0},
		{ID: 12, Name: "Marta", VoteCount: 1},
	}, res.Candidates)
	assert.Nil(t, res.HasVoted)
}

func TestTally_NoCandidates(t *testing.T) {
	res := Tally(Campaign{ID: 2}, nil, nil)

	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
	assert.Zero(t, res.TotalVotes)
}
