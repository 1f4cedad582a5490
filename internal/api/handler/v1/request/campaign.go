package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/votaciones-campus/api/internal/domain"
)

// Layouts accepted for campaign timestamps. The second one is what an HTML
// datetime-local input sends and is read as UTC.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

var (
	errInvalidTimestamp  = errors.New("must be an RFC3339 timestamp")
	errCandidateNoTarget = errors.New("nombre or userId is required")
)

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errInvalidTimestamp
}

func isTimestamp(value interface{}) error {
	s, _ := value.(string)
	if p, ok := value.(*string); ok && p != nil {
		s = *p
	}
	if s == "" {
		return nil
	}

	_, err := parseTimestamp(s)
	return err
}

var states = []interface{}{
	string(domain.StateEnabled),
	string(domain.StateDisabled),
	string(domain.StateFinished),
}

type CreateCampaignRequest struct {
	Titulo        string `json:"titulo"`
	Descripcion   string `json:"descripcion"`
	Estado        string `json:"estado" enums:"habilitada,deshabilitada,finalizada"`
	FechaInicio   string `json:"fecha_inicio" format:"date-time"`
	FechaFin      string `json:"fecha_fin" format:"date-time"`
	CantidadVotos int    `json:"cantidad_votos"`
}

func (req *CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Titulo, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Descripcion, validation.Length(0, 500)),
		validation.Field(&req.Estado, validation.In(states...)),
		validation.Field(&req.FechaInicio, validation.Required, validation.By(isTimestamp)),
		validation.Field(&req.FechaFin, validation.Required, validation.By(isTimestamp)),
		validation.Field(&req.CantidadVotos, validation.Min(0), validation.Max(100)),
	)
}

func (req *CreateCampaignRequest) ToDomain() (domain.Campaign, error) {
	startsAt, err := parseTimestamp(req.FechaInicio)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("fecha_inicio: %w", err)
	}

	endsAt, err := parseTimestamp(req.FechaFin)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("fecha_fin: %w", err)
	}

	return domain.Campaign{
		Title:         strings.TrimSpace(req.Titulo),
		Description:   req.Descripcion,
		State:         domain.CampaignState(req.Estado),
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		VotesPerVoter: req.CantidadVotos,
	}, nil
}

// UpdateCampaignRequest is a partial update. Omitted fields are left unchanged.
type UpdateCampaignRequest struct {
	Titulo      *string `json:"titulo"`
	Descripcion *string `json:"descripcion"`
	Estado      *string `json:"estado" enums:"habilitada,deshabilitada,finalizada"`
	FechaInicio *string `json:"fecha_inicio" format:"date-time"`
	FechaFin    *string `json:"fecha_fin" format:"date-time"`
}

func (req *UpdateCampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Titulo, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Descripcion, validation.Length(0, 500)),
		validation.Field(&req.Estado, validation.NilOrNotEmpty, validation.In(states...)),
		validation.Field(&req.FechaInicio, validation.NilOrNotEmpty, validation.By(isTimestamp)),
		validation.Field(&req.FechaFin, validation.NilOrNotEmpty, validation.By(isTimestamp)),
	)
}

func (req *UpdateCampaignRequest) ToPatch() (domain.CampaignPatch, error) {
	patch := domain.CampaignPatch{
		Title:       req.Titulo,
		Description: req.Descripcion,
	}

	if req.Titulo != nil {
		title := strings.TrimSpace(*req.Titulo)
		patch.Title = &title
	}
	if req.Estado != nil {
		state := domain.CampaignState(*req.Estado)
		patch.State = &state
	}
	if req.FechaInicio != nil {
		t, err := parseTimestamp(*req.FechaInicio)
		if err != nil {
			return domain.CampaignPatch{}, fmt.Errorf("fecha_inicio: %w", err)
		}
		patch.StartsAt = &t
	}
	if req.FechaFin != nil {
		t, err := parseTimestamp(*req.FechaFin)
		if err != nil {
			return domain.CampaignPatch{}, fmt.Errorf("fecha_fin: %w", err)
		}
		patch.EndsAt = &t
	}

	return patch, nil
}

type AddCandidateRequest struct {
	Nombre string `json:"nombre"`
	UserID *uint  `json:"userId"`
}

func (req *AddCandidateRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Nombre, validation.Length(0, 150)),
		validation.Field(&req.UserID, validation.NilOrNotEmpty),
	)
	if err != nil {
		return err
	}

	if strings.TrimSpace(req.Nombre) == "" && req.UserID == nil {
		return errCandidateNoTarget
	}

	return nil
}

type VoteRequest struct {
	CandidatoID uint `json:"candidatoId"`
}

func (req *VoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CandidatoID, validation.Required),
	)
}
