package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/service"
)

type ReportService interface {
	CampaignReport(ctx context.Context, principal domain.Principal) ([]domain.CampaignReport, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleCampaignReport godoc
// @Summary      Candidate and vote totals per campaign
// @Tags         reports
// @Produce      json
// @Success      200  {array}   domain.CampaignReport
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reports/campaigns [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleCampaignReport(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	report, err := h.svc.CampaignReport(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("v1.HandleCampaignReport -> h.svc.CampaignReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}
