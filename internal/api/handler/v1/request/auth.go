package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/votaciones-campus/api/internal/domain"
)

const (
	// regexp from the standard library has no lookahead support.
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
	// bcrypt ignores anything past 72 bytes and refuses to hash it.
	maxPasswordBytes = 72

	DateLayout = "2006-01-02"
)

var (
	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

	errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
)

type RegisterRequest struct {
	NumeroColegiado string `json:"numero_colegiado"`
	NombreCompleto  string `json:"nombre_completo"`
	Email           string `json:"email"`
	DPI             string `json:"dpi"`
	FechaNacimiento string `json:"fecha_nacimiento" format:"YYYY-MM-DD"`
	Password        string `json:"password"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.NumeroColegiado, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.NombreCompleto, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.DPI, validation.Required, is.Digit, validation.Length(4, 20)),
		validation.Field(&req.FechaNacimiento, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.Password, validation.Required, validation.Length(8, maxPasswordBytes)),
	)
	if err != nil {
		return err
	}

	if ok, _ := passwordExp.MatchString(req.Password); !ok {
		return errInvalidPassword
	}

	return nil
}

func (req *RegisterRequest) ToDomain() (domain.User, error) {
	birth, err := time.Parse(DateLayout, req.FechaNacimiento)
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid fecha_nacimiento: %w", err)
	}

	return domain.User{
		NumeroColegiado: strings.TrimSpace(req.NumeroColegiado),
		NombreCompleto:  strings.TrimSpace(req.NombreCompleto),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		DPI:             strings.TrimSpace(req.DPI),
		FechaNacimiento: birth,
		Password:        req.Password,
	}, nil
}

// LoginRequest carries the voter's second factor. Administrators may leave DPI
// and FechaNacimiento empty.
type LoginRequest struct {
	NumeroColegiado string `json:"numero_colegiado"`
	DPI             string `json:"dpi"`
	FechaNacimiento string `json:"fecha_nacimiento" format:"YYYY-MM-DD"`
	Password        string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NumeroColegiado, validation.Required),
		validation.Field(&req.FechaNacimiento, validation.Date(DateLayout)),
		validation.Field(&req.Password, validation.Required),
	)
}

func (req *LoginRequest) Credentials() domain.Credentials {
	creds := domain.Credentials{
		NumeroColegiado: strings.TrimSpace(req.NumeroColegiado),
		DPI:             strings.TrimSpace(req.DPI),
		Password:        req.Password,
	}
	if birth, err := time.Parse(DateLayout, req.FechaNacimiento); err == nil {
		creds.FechaNacimiento = birth
	}

	return creds
}
