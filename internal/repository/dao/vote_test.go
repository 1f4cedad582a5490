package dao

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteDAO_Insert_ConcurrentSameVoter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(setupDB(t))

	voter := f.user(t, "100")
	c := f.campaign(t)
	a := f.candidate(t, c.ID, "A")
	b := f.candidate(t, c.ID, "B")

	const attempts = 20

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
		other    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		candidateID := a.ID
		if i%2 == 1 {
			candidateID = b.ID
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := f.votes.Insert(ctx, Vote{UserID: voter.ID, CampaignID: c.ID, CandidateID: candidateID})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrAlreadyVoted):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, rejected)

	var rows int64
	require.NoError(t, f.votes.db.Model(&Vote{}).Where("user_id = ? AND campaign_id = ?", voter.ID, c.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestVoteDAO_Insert_UnknownCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(setupDB(t))

	voter := f.user(t, "100")
	c := f.campaign(t)

	_, err := f.votes.Insert(ctx, Vote{UserID: voter.ID, CampaignID: c.ID, CandidateID: 9999})
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestVoteDAO_CountByCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(setupDB(t))

	c1 := f.campaign(t)
	c2 := f.campaign(t)
	a := f.candidate(t, c1.ID, "A")
	b := f.candidate(t, c1.ID, "B")
	idle := f.candidate(t, c1.ID, "C")
	x := f.candidate(t, c2.ID, "X")

	var voters []User
	votesFor := []uint{a.ID, a.ID, a.ID, b.ID}
	for i, candidateID := range votesFor {
		voter := f.user(t, fmt.Sprintf("%d", 100+i))
		voters = append(voters, voter)
		_, err := f.votes.Insert(ctx, Vote{UserID: voter.ID, CampaignID: c1.ID, CandidateID: candidateID})
		require.NoError(t, err)

		_, err = f.votes.Insert(ctx, Vote{UserID: voter.ID, CampaignID: c2.ID, CandidateID: x.ID})
		require.NoError(t, err)
	}

	counts, err := f.votes.CountByCandidate(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{a.ID: 3, b.ID: 1}, counts)
	assert.NotContains(t, counts, idle.ID)

	var total int64
	for _, n := range counts {
		total += n
	}
	var rows int64
	require.NoError(t, f.votes.db.Model(&Vote{}).Where("campaign_id = ?", c1.ID).Count(&rows).Error)
	assert.Equal(t, rows, total)

	all, err := f.votes.CountAllByCandidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{a.ID: 3, b.ID: 1, x.ID: 4}, all)

	voted, err := f.votes.HasVoted(ctx, voters[0].ID, c1.ID)
	require.NoError(t, err)
	assert.True(t, voted)

	nobody := f.user(t, "nobody")
	voted, err = f.votes.HasVoted(ctx, nobody.ID, c1.ID)
	require.NoError(t, err)
	assert.False(t, voted)
}
