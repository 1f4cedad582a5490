package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/api/middleware"
	"github.com/votaciones-campus/api/internal/domain"
)

var errNoPrincipal = errors.New("no authenticated user on request")

// principalFromContext returns the caller set by middleware.Authenticator.
func principalFromContext(ctx *gin.Context) (domain.Principal, *response.Err) {
	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		return domain.Principal{}, response.ErrUnauthorized(errNoPrincipal)
	}

	return principal, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s", name))
	}

	return uint(id), nil
}
