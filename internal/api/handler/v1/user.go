package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/request"
	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/service"
)

type UserService interface {
	Me(ctx context.Context, principal domain.Principal) (domain.User, error)
	ListVoters(ctx context.Context, principal domain.Principal) ([]domain.User, error)
	ListAdmins(ctx context.Context, principal domain.Principal) ([]domain.User, error)
	DeleteVoter(ctx context.Context, principal domain.Principal, id uint) error
	GetProfile(ctx context.Context, principal domain.Principal) (domain.UserWithProfile, error)
	UpsertProfile(ctx context.Context, principal domain.Principal, profile domain.Profile) (domain.Profile, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleMe godoc
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleMe(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.Me(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", principal.ID))
			return
		}

		err = fmt.Errorf("v1.HandleMe -> h.svc.Me -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListVoters godoc
// @Summary      List registered voters
// @Tags         voters
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/votantes [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListVoters(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	voters, err := h.svc.ListVoters(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListVoters -> h.svc.ListVoters -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, voters)
}

// HandleListAdmins godoc
// @Summary      List administrators
// @Tags         auth
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/admins [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListAdmins(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	admins, err := h.svc.ListAdmins(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleListAdmins -> h.svc.ListAdmins -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, admins)
}

// HandleDeleteVoter godoc
// @Summary      Delete a voter with its votes and profile
// @Tags         voters
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/votantes/{userID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleDeleteVoter(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.DeleteVoter(ctx.Request.Context(), principal, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", userID))
		case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrNotAVoter):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteVoter -> h.svc.DeleteVoter -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetProfile godoc
// @Summary      Get the voter's profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  domain.UserWithProfile
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetProfile(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	profile, err := h.svc.GetProfile(ctx.Request.Context(), principal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", principal.ID))
		default:
			err = fmt.Errorf("v1.HandleGetProfile -> h.svc.GetProfile -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// HandleUpsertProfile godoc
// @Summary      Create or update the voter's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request  body      request.ProfileRequest  true  "profile"
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *UserHandler) HandleUpsertProfile(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	saved, err := h.svc.UpsertProfile(ctx.Request.Context(), principal, req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", principal.ID))
		default:
			err = fmt.Errorf("v1.HandleUpsertProfile -> h.svc.UpsertProfile -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, saved)
}
