package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/request"
	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/config"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/pkg/jwthelper"
	"github.com/votaciones-campus/api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.User, error)
	CreateAdmin(ctx context.Context, principal domain.Principal, user domain.User) (domain.User, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleRegister godoc
// @Summary      Register a new voter
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := bindUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	created, err := h.svc.Register(ctx.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserExists))
		case errors.Is(err, service.ErrPasswordTooLong):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPasswordTooLong))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleCreateAdmin godoc
// @Summary      Create another administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/admin [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleCreateAdmin(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, respErr := bindUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	created, err := h.svc.CreateAdmin(ctx.Request.Context(), principal, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUserExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserExists))
		case errors.Is(err, service.ErrPasswordTooLong):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPasswordTooLong))
		default:
			err = fmt.Errorf("v1.HandleCreateAdmin -> h.svc.CreateAdmin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func bindUser(ctx *gin.Context) (domain.User, *response.Err) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return domain.User{}, response.ErrBadRequest(err)
	}

	if err := req.Validate(); err != nil {
		return domain.User{}, response.ErrBadRequest(err)
	}

	user, err := req.ToDomain()
	if err != nil {
		return domain.User{}, response.ErrBadRequest(err)
	}

	return user, nil
}

// HandleLogin godoc
// @Summary      Login with numero de colegiado, DPI, birth date and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Credentials())
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.Principal(), h.conf.JWTTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}
