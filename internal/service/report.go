package service

import (
	"context"
	"fmt"

	"github.com/votaciones-campus/api/internal/domain"
)

type CampaignLister interface {
	ListCampaigns(ctx context.Context) ([]domain.CampaignResults, error)
}

type ReportService struct {
	campaigns CampaignLister
}

func NewReportService(campaigns CampaignLister) *ReportService {
	return &ReportService{
		campaigns: campaigns,
	}
}

// CampaignReport summarises every campaign with its candidate and vote totals.
func (s *ReportService) CampaignReport(ctx context.Context, principal domain.Principal) ([]domain.CampaignReport, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	results, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.campaigns.ListCampaigns -> %w", err)
	}

	reports := make([]domain.CampaignReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, domain.CampaignReport{
			ID:              r.ID,
			Title:           r.Title,
			Description:     r.Description,
			State:           r.State,
			TotalCandidates: len(r.Candidates),
			TotalVotes:      r.TotalVotes,
			StartsAt:        r.StartsAt,
			EndsAt:          r.EndsAt,
		})
	}

	return reports, nil
}
