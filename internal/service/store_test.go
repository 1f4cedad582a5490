package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/repository"
)

type voteKey struct {
	userID     uint
	campaignID uint
}

// memStore keeps users, campaigns, candidates and votes in memory with the same
// uniqueness and referential rules the database enforces.
type memStore struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]domain.User
	profiles   map[uint]domain.Profile
	campaigns  map[uint]domain.Campaign
	candidates map[uint]domain.Candidate
	votes      map[uint]domain.Vote
	voted      map[voteKey]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uint]domain.User),
		profiles:   make(map[uint]domain.Profile),
		campaigns:  make(map[uint]domain.Campaign),
		candidates: make(map[uint]domain.Candidate),
		votes:      make(map[uint]domain.Vote),
		voted:      make(map[voteKey]struct{}),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) voteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.votes)
}

type userStub struct{ *memStore }

func (r userStub) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.NumeroColegiado == user.NumeroColegiado || u.Email == user.Email || u.DPI == user.DPI {
			return domain.User{}, repository.ErrUserExists
		}
	}
	user.ID = r.id()
	r.users[user.ID] = user

	return user, nil
}

func (r userStub) FindByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return u, nil
}

func (r userStub) FindByNumeroColegiado(_ context.Context, numero string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.NumeroColegiado == numero {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (r userStub) FindByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := []domain.User{}
	for _, u := range r.users {
		if u.Role == role {
			list = append(list, u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list, nil
}

func (r userStub) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Password = hash
	r.users[id] = u

	return nil
}

func (r userStub) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for vid, v := range r.votes {
		if v.UserID == id {
			delete(r.votes, vid)
			delete(r.voted, voteKey{v.UserID, v.CampaignID})
		}
	}
	delete(r.profiles, id)
	delete(r.users, id)

	return nil
}

func (r userStub) FindProfile(_ context.Context, userID uint) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}

	return &p, nil
}

func (r userStub) UpsertProfile(_ context.Context, profile domain.Profile) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[profile.UserID]; !ok {
		return domain.Profile{}, repository.ErrUserNotFound
	}
	r.profiles[profile.UserID] = profile

	return profile, nil
}

type campaignStub struct{ *memStore }

func (r campaignStub) Create(_ context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign.ID = r.id()
	r.campaigns[campaign.ID] = campaign

	return campaign, nil
}

func (r campaignStub) FindByID(_ context.Context, id uint) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrCampaignNotFound
	}

	return c, nil
}

func (r campaignStub) FindAll(_ context.Context) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]domain.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list, nil
}

func (r campaignStub) Update(_ context.Context, id uint, patch domain.CampaignPatch, check func(domain.Campaign) error) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrCampaignNotFound
	}
	if check != nil {
		if err := check(c); err != nil {
			return domain.Campaign{}, err
		}
	}
	c = patch.Apply(c)
	r.campaigns[id] = c

	return c, nil
}

func (r campaignStub) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[id]; !ok {
		return repository.ErrCampaignNotFound
	}
	for vid, v := range r.votes {
		if v.CampaignID == id {
			delete(r.votes, vid)
			delete(r.voted, voteKey{v.UserID, v.CampaignID})
		}
	}
	for cid, c := range r.candidates {
		if c.CampaignID == id {
			delete(r.candidates, cid)
		}
	}
	delete(r.campaigns, id)

	return nil
}

func (r campaignStub) CreateCandidate(_ context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.campaigns[candidate.CampaignID]; !ok {
		return domain.Candidate{}, repository.ErrCampaignNotFound
	}
	candidate.ID = r.id()
	r.candidates[candidate.ID] = candidate

	return candidate, nil
}

func (r campaignStub) FindCandidateByID(_ context.Context, id uint) (domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.candidates[id]
	if !ok {
		return domain.Candidate{}, repository.ErrCandidateNotFound
	}

	return c, nil
}

func (r campaignStub) FindCandidatesByCampaignID(_ context.Context, campaignID uint) ([]domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := []domain.Candidate{}
	for _, c := range r.candidates {
		if c.CampaignID == campaignID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list, nil
}

func (r campaignStub) FindAllCandidates(_ context.Context) ([]domain.CandidateSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := []domain.CandidateSummary{}
	for _, c := range r.candidates {
		list = append(list, domain.CandidateSummary{
			CandidateResult: domain.CandidateResult{ID: c.ID, Name: c.Name, UserID: c.UserID},
			CampaignID:      c.CampaignID,
			CampaignTitle:   r.campaigns[c.CampaignID].Title,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list, nil
}

func (r campaignStub) DeleteCandidate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.candidates[id]; !ok {
		return repository.ErrCandidateNotFound
	}
	for _, v := range r.votes {
		if v.CandidateID == id {
			return repository.ErrCandidateHasVotes
		}
	}
	delete(r.candidates, id)

	return nil
}

type voteStub struct{ *memStore }

func (r voteStub) Create(_ context.Context, vote domain.Vote) (domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey{vote.UserID, vote.CampaignID}
	if _, ok := r.voted[key]; ok {
		return domain.Vote{}, repository.ErrAlreadyVoted
	}
	if _, ok := r.candidates[vote.CandidateID]; !ok {
		return domain.Vote{}, repository.ErrCandidateNotFound
	}
	vote.ID = r.id()
	vote.CastAt = time.Now()
	r.votes[vote.ID] = vote
	r.voted[key] = struct{}{}

	return vote, nil
}

func (r voteStub) CountByCandidate(_ context.Context, campaignID uint) (map[uint]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[uint]int64)
	for _, v := range r.votes {
		if v.CampaignID == campaignID {
			counts[v.CandidateID]++
		}
	}

	return counts, nil
}

func (r voteStub) CountAllByCandidate(_ context.Context) (map[uint]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[uint]int64)
	for _, v := range r.votes {
		counts[v.CandidateID]++
	}

	return counts, nil
}

func (r voteStub) HasVoted(_ context.Context, userID, campaignID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.voted[voteKey{userID, campaignID}]
	return ok, nil
}
