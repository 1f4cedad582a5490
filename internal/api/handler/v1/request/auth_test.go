package request

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		NumeroColegiado: "12345",
		NombreCompleto:  "Ana López",
		Email:           "ana@example.com",
		DPI:             "1234567890101",
		FechaNacimiento: "1995-06-15",
		Password:        "secreto123",
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := validRegister()
	assert.NoError(t, req.Validate())

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
	}{
		{"missing numero", func(r *RegisterRequest) { r.NumeroColegiado = "" }},
		{"missing nombre", func(r *RegisterRequest) { r.NombreCompleto = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "ana" }},
		{"dpi with letters", func(r *RegisterRequest) { r.DPI = "12ab" }},
		{"bad birth date", func(r *RegisterRequest) { r.FechaNacimiento = "15/06/1995" }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc123" }},
		{"password without digit", func(r *RegisterRequest) { r.Password = "abcdefghij" }},
		{"password without letter", func(r *RegisterRequest) { r.Password = "1234567890" }},
		{"password over 72 bytes", func(r *RegisterRequest) { r.Password = "a1" + strings.Repeat("x", 71) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegister()
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestRegisterRequest_PasswordLengthInBytes(t *testing.T) {
	r := validRegister()
	r.Password = "a1" + strings.Repeat("x", 70)
	assert.NoError(t, r.Validate())

	// 38 runes but 74 bytes
	r.Password = "a1" + strings.Repeat("ñ", 36)
	assert.Error(t, r.Validate())
}

func TestRegisterRequest_ToDomain(t *testing.T) {
	req := validRegister()
	req.Email = "  Ana@Example.com "

	user, err := req.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC), user.FechaNacimiento)
	assert.Empty(t, user.Role)
}

func TestLoginRequest(t *testing.T) {
	req := LoginRequest{NumeroColegiado: "root", Password: "x"}
	require.NoError(t, req.Validate())
	assert.True(t, req.Credentials().FechaNacimiento.IsZero())

	req.FechaNacimiento = "2000-13-01"
	assert.Error(t, req.Validate())

	req.FechaNacimiento = "2000-01-31"
	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2000, 1, 31, 0, 0, 0, 0, time.UTC), req.Credentials().FechaNacimiento)

	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}
