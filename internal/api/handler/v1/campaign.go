package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/votaciones-campus/api/internal/api/handler/v1/request"
	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/service"
)

type CampaignService interface {
	CastVote(ctx context.Context, principal domain.Principal, campaignID, candidateID uint) (domain.Vote, error)
	GetCampaignResults(ctx context.Context, campaignID uint) (domain.CampaignResults, error)
	CampaignDetail(ctx context.Context, principal domain.Principal, campaignID uint) (domain.CampaignResults, error)
	ListCampaigns(ctx context.Context) ([]domain.CampaignResults, error)
	CreateCampaign(ctx context.Context, principal domain.Principal, campaign domain.Campaign) (domain.Campaign, error)
	UpdateCampaign(ctx context.Context, principal domain.Principal, campaignID uint, patch domain.CampaignPatch) (domain.Campaign, error)
	DeleteCampaign(ctx context.Context, principal domain.Principal, campaignID uint) error
	AddCandidate(ctx context.Context, principal domain.Principal, campaignID uint, candidate domain.Candidate) (domain.Candidate, error)
	ListCandidates(ctx context.Context, principal domain.Principal) ([]domain.CandidateSummary, error)
	DeleteCandidate(ctx context.Context, principal domain.Principal, candidateID uint) error
}

// ResultsPublisher receives the tally of a campaign after every accepted vote.
type ResultsPublisher interface {
	Publish(results domain.CampaignResults)
	Subscribe(conn *websocket.Conn, initial domain.CampaignResults)
}

type CampaignHandler struct {
	svc      CampaignService
	hub      ResultsPublisher
	upgrader websocket.Upgrader
}

func NewCampaignHandler(svc CampaignService, hub ResultsPublisher, allowedOrigins []string) *CampaignHandler {
	return &CampaignHandler{
		svc:      svc,
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// HandleListCampaigns godoc
// @Summary      List campaigns with candidates and vote counts
// @Tags         campaigns
// @Produce      json
// @Success      200  {array}   domain.CampaignResults
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleListCampaigns(ctx *gin.Context) {
	campaigns, err := h.svc.ListCampaigns(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCampaigns -> h.svc.ListCampaigns -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, campaigns)
}

// HandleGetCampaign godoc
// @Summary      Get a campaign with its tally
// @Description  Voters also get has_voted for this campaign.
// @Tags         campaigns
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      200  {object}  domain.CampaignResults
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID} [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleGetCampaign(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	res, err := h.svc.CampaignDetail(ctx.Request.Context(), principal, campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCampaign -> h.svc.CampaignDetail -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// HandleCreateCampaign godoc
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCampaignRequest  true  "campaign"
// @Success      201  {object}  domain.Campaign
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCreateCampaign(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	campaign, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateCampaign(ctx.Request.Context(), principal, campaign)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrInvalidWindow), errors.Is(err, service.ErrInvalidState):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateCampaign -> h.svc.CreateCampaign -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateCampaign godoc
// @Summary      Update a campaign
// @Description  Partial update of titulo, descripcion, estado and the voting window.
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                            true  "Campaign ID"
// @Param        request     body      request.UpdateCampaignRequest  true  "fields to change"
// @Success      200  {object}  domain.Campaign
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID} [patch]
// @Security     BearerAuth
func (h *CampaignHandler) HandleUpdateCampaign(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateCampaign(ctx.Request.Context(), principal, campaignID, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
		case errors.Is(err, service.ErrInvalidWindow), errors.Is(err, service.ErrInvalidState):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateCampaign -> h.svc.UpdateCampaign -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCampaign godoc
// @Summary      Delete a campaign with its candidates and votes
// @Tags         campaigns
// @Produce      json
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID} [delete]
// @Security     BearerAuth
func (h *CampaignHandler) HandleDeleteCampaign(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.DeleteCampaign(ctx.Request.Context(), principal, campaignID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
		default:
			err = fmt.Errorf("v1.HandleDeleteCampaign -> h.svc.DeleteCampaign -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddCandidate godoc
// @Summary      Add a candidate to a campaign
// @Description  When userId is given the candidate is linked to that voter, who can then not vote for itself.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                          true  "Campaign ID"
// @Param        request     body      request.AddCandidateRequest  true  "candidate"
// @Success      201  {object}  domain.Candidate
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/candidates [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleAddCandidate(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.AddCandidate(ctx.Request.Context(), principal, campaignID, domain.Candidate{
		Name:   req.Nombre,
		UserID: req.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", *req.UserID))
		case errors.Is(err, service.ErrNotAVoter), errors.Is(err, service.ErrCandidateNameRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleAddCandidate -> h.svc.AddCandidate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListCandidates godoc
// @Summary      List every candidate with its campaign and vote count
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.CandidateSummary
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/candidates [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleListCandidates(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	candidates, err := h.svc.ListCandidates(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListCandidates -> h.svc.ListCandidates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, candidates)
}

// HandleDeleteCandidate godoc
// @Summary      Delete a candidate without votes
// @Tags         candidates
// @Produce      json
// @Param        candidateID  path      int  true  "Candidate ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/candidates/{candidateID} [delete]
// @Security     BearerAuth
func (h *CampaignHandler) HandleDeleteCandidate(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	candidateID, respErr := parseIDParam(ctx, "candidateID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.DeleteCandidate(ctx.Request.Context(), principal, candidateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrPermissionDenied))
		case errors.Is(err, service.ErrCandidateHasVotes):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrCandidateHasVotes))
		case errors.Is(err, service.ErrCandidateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", candidateID))
		default:
			err = fmt.Errorf("v1.HandleDeleteCandidate -> h.svc.DeleteCandidate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCastVote godoc
// @Summary      Vote for a candidate
// @Description  One vote per voter and campaign. The campaign must be habilitada and inside its window.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        campaignID  path      int                  true  "Campaign ID"
// @Param        request     body      request.VoteRequest  true  "candidate"
// @Success      201  {object}  response.VoteResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /campaigns/{campaignID}/vote [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCastVote(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vote, err := h.svc.CastVote(ctx.Request.Context(), principal, campaignID, req.CandidatoID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
		case errors.Is(err, service.ErrCandidateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", req.CandidatoID))
		case errors.Is(err, service.ErrCandidateNotInCampaign):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrCandidateNotInCampaign))
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrPermissionDenied))
		case errors.Is(err, service.ErrCampaignNotOpen):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrCampaignNotOpen))
		case errors.Is(err, service.ErrSelfVote):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrSelfVote))
		case errors.Is(err, service.ErrAlreadyVoted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyVoted))
		default:
			err = fmt.Errorf("v1.HandleCastVote -> h.svc.CastVote -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	h.publishResults(ctx.Request.Context(), campaignID)

	ctx.JSON(http.StatusCreated, response.VoteResponse{
		Message: "vote recorded",
		Vote:    vote,
	})
}

// publishResults pushes the fresh tally to live subscribers. Failures are only logged.
func (h *CampaignHandler) publishResults(ctx context.Context, campaignID uint) {
	if h.hub == nil {
		return
	}

	res, err := h.svc.GetCampaignResults(ctx, campaignID)
	if err != nil {
		zap.L().Warn("compute live results", zap.Uint("campaign_id", campaignID), zap.Error(err))
		return
	}

	h.hub.Publish(res)
}

// HandleLiveResults godoc
// @Summary      Live tally over websocket
// @Description  Sends the current tally on connect and a new one after each vote. Only this route accepts the token as ?token=.
// @Tags         campaigns
// @Param        campaignID  path      int  true  "Campaign ID"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /campaigns/{campaignID}/live [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleLiveResults(ctx *gin.Context) {
	if h.hub == nil {
		response.RenderErr(ctx, &response.Err{
			HTTPStatusCode: http.StatusServiceUnavailable,
			Message:        "live results unavailable",
			Err:            errors.New("no results hub"),
		})
		return
	}

	campaignID, respErr := parseIDParam(ctx, "campaignID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	res, err := h.svc.GetCampaignResults(ctx.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("campaign", "id", campaignID))
			return
		}

		err = fmt.Errorf("v1.HandleLiveResults -> h.svc.GetCampaignResults -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Subscribe(conn, res)
}
