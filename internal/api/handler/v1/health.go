package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Message
// @Failure      503  {object}  response.Err
// @Router       / [get]
func (h *HealthHandler) HandleHealthcheck(ctx *gin.Context) {
	if h.db == nil {
		response.RenderErr(ctx, &response.Err{
			HTTPStatusCode: http.StatusServiceUnavailable,
			Message:        "database unavailable",
			Err:            errors.New("no database handle"),
		})
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(pingCtx); err != nil {
		response.RenderErr(ctx, &response.Err{
			HTTPStatusCode: http.StatusServiceUnavailable,
			Message:        "database unavailable",
			Err:            fmt.Errorf("h.db.PingContext -> %w", err),
		})
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "ok"})
}
