package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/votaciones-campus/api/internal/domain"
)

var phoneExp = regexp.MustCompile(`^\+?[0-9 -]{8,20}$`)

type ProfileRequest struct {
	Licenciatura string `json:"licenciatura"`
	Carrera      string `json:"carrera"`
	Edad         *int   `json:"edad"`
	Telefono     string `json:"telefono"`
	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
}

func (req *ProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Licenciatura, validation.Length(0, 150)),
		validation.Field(&req.Carrera, validation.Length(0, 150)),
		validation.Field(&req.Edad, validation.Min(15), validation.Max(120)),
		validation.Field(&req.Telefono, validation.Match(phoneExp)),
		validation.Field(&req.Direccion, validation.Length(0, 255)),
		validation.Field(&req.Ciudad, validation.Length(0, 100)),
	)
}

func (req *ProfileRequest) ToDomain() domain.Profile {
	return domain.Profile{
		Licenciatura: req.Licenciatura,
		Carrera:      req.Carrera,
		Edad:         req.Edad,
		Telefono:     req.Telefono,
		Direccion:    req.Direccion,
		Ciudad:       req.Ciudad,
	}
}
