package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/votaciones-campus/api/internal/api/middleware"
	"github.com/votaciones-campus/api/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	voterPrincipal = domain.Principal{ID: 42, Role: domain.RoleVoter, Name: "Ana"}
	adminPrincipal = domain.Principal{ID: 1, Role: domain.RoleAdmin, Name: "root"}
)

// asPrincipal stands in for middleware.Authenticator.
func asPrincipal(p *domain.Principal) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if p != nil {
			ctx.Set(middleware.ContextKeyPrincipal, *p)
		}
		ctx.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	decodeJSON(t, w, &body)

	return body.Message
}

type campaignServiceStub struct {
	castErr     error
	resultsErr  error
	deleteErr   error
	results     domain.CampaignResults
	lastVoter   domain.Principal
	lastVoteFor uint
}

func (s *campaignServiceStub) CastVote(_ context.Context, principal domain.Principal, campaignID, candidateID uint) (domain.Vote, error) {
	s.lastVoter = principal
	s.lastVoteFor = candidateID
	if s.castErr != nil {
		return domain.Vote{}, s.castErr
	}

	return domain.Vote{ID: 1, UserID: principal.ID, CampaignID: campaignID, CandidateID: candidateID}, nil
}

func (s *campaignServiceStub) GetCampaignResults(_ context.Context, campaignID uint) (domain.CampaignResults, error) {
	if s.resultsErr != nil {
		return domain.CampaignResults{}, s.resultsErr
	}
	res := s.results
	res.ID = campaignID

	return res, nil
}

func (s *campaignServiceStub) CampaignDetail(ctx context.Context, _ domain.Principal, campaignID uint) (domain.CampaignResults, error) {
	return s.GetCampaignResults(ctx, campaignID)
}

func (s *campaignServiceStub) ListCampaigns(context.Context) ([]domain.CampaignResults, error) {
	return []domain.CampaignResults{s.results}, nil
}

func (s *campaignServiceStub) CreateCampaign(_ context.Context, _ domain.Principal, campaign domain.Campaign) (domain.Campaign, error) {
	campaign.ID = 10
	return campaign, nil
}

func (s *campaignServiceStub) UpdateCampaign(_ context.Context, _ domain.Principal, campaignID uint, _ domain.CampaignPatch) (domain.Campaign, error) {
	return domain.Campaign{ID: campaignID}, nil
}

func (s *campaignServiceStub) DeleteCampaign(context.Context, domain.Principal, uint) error {
	return s.deleteErr
}

func (s *campaignServiceStub) AddCandidate(_ context.Context, _ domain.Principal, campaignID uint, candidate domain.Candidate) (domain.Candidate, error) {
	candidate.ID = 20
	candidate.CampaignID = campaignID

	return candidate, nil
}

func (s *campaignServiceStub) ListCandidates(context.Context, domain.Principal) ([]domain.CandidateSummary, error) {
	return nil, nil
}

func (s *campaignServiceStub) DeleteCandidate(context.Context, domain.Principal, uint) error {
	return s.deleteErr
}

type publisherStub struct {
	published []domain.CampaignResults
}

func (p *publisherStub) Publish(results domain.CampaignResults) {
	p.published = append(p.published, results)
}

func (p *publisherStub) Subscribe(conn *websocket.Conn, _ domain.CampaignResults) {
	conn.Close()
}

func newCampaignRouter(h *CampaignHandler, p *domain.Principal) *gin.Engine {
	r := gin.New()
	r.Use(asPrincipal(p))
	r.POST("/campaigns", h.HandleCreateCampaign)
	r.GET("/campaigns/:campaignID", h.HandleGetCampaign)
	r.DELETE("/campaigns/:campaignID", h.HandleDeleteCampaign)
	r.POST("/campaigns/:campaignID/vote", h.HandleCastVote)
	r.GET("/campaigns/:campaignID/live", h.HandleLiveResults)

	return r
}
