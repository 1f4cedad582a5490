package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votaciones-campus/api/internal/config"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/pkg/jwthelper"
	"github.com/votaciones-campus/api/internal/service"
)

const testSigningKey = "test-signing-key-with-enough-bytes"

type authServiceStub struct {
	registerErr error
	loginErr    error
	registered  domain.User
	creds       domain.Credentials
}

func (s *authServiceStub) Register(_ context.Context, user domain.User) (domain.User, error) {
	s.registered = user
	if s.registerErr != nil {
		return domain.User{}, s.registerErr
	}
	user.ID = 42
	user.Role = domain.RoleVoter

	return user, nil
}

func (s *authServiceStub) Login(_ context.Context, creds domain.Credentials) (domain.User, error) {
	s.creds = creds
	if s.loginErr != nil {
		return domain.User{}, s.loginErr
	}

	return domain.User{ID: 42, NumeroColegiado: creds.NumeroColegiado, NombreCompleto: "Ana", Role: domain.RoleVoter}, nil
}

func (s *authServiceStub) CreateAdmin(_ context.Context, principal domain.Principal, user domain.User) (domain.User, error) {
	if !principal.IsAdmin() {
		return domain.User{}, service.ErrPermissionDenied
	}
	user.Role = domain.RoleAdmin

	return user, nil
}

func newAuthRouter(svc AuthService) *gin.Engine {
	h := NewAuthHandler(&config.APIConfig{JWTSigningKey: testSigningKey, JWTTTL: time.Hour}, svc)

	r := gin.New()
	r.POST("/auth/register", h.HandleRegister)
	r.POST("/auth/login", h.HandleLogin)
	r.POST("/auth/admin", asPrincipal(&voterPrincipal), h.HandleCreateAdmin)

	return r
}

var registerBody = map[string]string{
	"numero_colegiado": "12345",
	"nombre_completo":  "Ana López",
	"email":            "ana@example.com",
	"dpi":              "1234567890101",
	"fecha_nacimiento": "1995-06-15",
	"password":         "secreto123",
}

func TestAuthHandler_HandleRegister(t *testing.T) {
	svc := &authServiceStub{}
	r := newAuthRouter(svc)

	w := doJSON(r, http.MethodPost, "/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"votante"`)
	assert.NotContains(t, w.Body.String(), "secreto123")
	assert.Equal(t, "secreto123", svc.registered.Password)

	svc.registerErr = service.ErrUserExists
	w = doJSON(r, http.MethodPost, "/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	bad := map[string]string{"numero_colegiado": "1", "password": "short"}
	w = doJSON(r, http.MethodPost, "/auth/register", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type userRepoStub struct {
	created []domain.User
}

func (r *userRepoStub) Create(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = uint(len(r.created) + 1)
	r.created = append(r.created, user)

	return user, nil
}

func (r *userRepoStub) FindByNumeroColegiado(context.Context, string) (domain.User, error) {
	return domain.User{}, service.ErrUserNotFound
}

func (r *userRepoStub) UpdatePassword(context.Context, uint, string) error {
	return nil
}

func TestAuthHandler_HandleRegister_PasswordTooLong(t *testing.T) {
	repo := &userRepoStub{}
	r := newAuthRouter(service.NewAuthService(repo))

	body := make(map[string]string, len(registerBody))
	for k, v := range registerBody {
		body[k] = v
	}
	body["password"] = "a1" + strings.Repeat("x", 80)

	w := doJSON(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Empty(t, repo.created)

	body["password"] = "secreto123"
	w = doJSON(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, repo.created, 1)
}

func TestAuthHandler_HandleRegister_HashRejected(t *testing.T) {
	svc := &authServiceStub{registerErr: fmt.Errorf("bcrypt.GenerateFromPassword -> %w", service.ErrPasswordTooLong)}
	r := newAuthRouter(svc)

	w := doJSON(r, http.MethodPost, "/auth/register", registerBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrPasswordTooLong.Error(), decodeMessage(t, w))
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	svc := &authServiceStub{}
	r := newAuthRouter(svc)

	body := map[string]string{
		"numero_colegiado": "12345",
		"dpi":              "1234567890101",
		"fecha_nacimiento": "1995-06-15",
		"password":         "secreto123",
	}

	w := doJSON(r, http.MethodPost, "/auth/login", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1234567890101", svc.creds.DPI)
	assert.Equal(t, time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC), svc.creds.FechaNacimiento)

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &resp)

	claims, err := jwthelper.ParseToken([]byte(testSigningKey), resp.Token)
	require.NoError(t, err)
	principal, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{ID: 42, Role: domain.RoleVoter, Name: "Ana"}, principal)

	svc.loginErr = service.ErrWrongCredentials
	w = doJSON(r, http.MethodPost, "/auth/login", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeMessage(t, w))

	svc.loginErr = errors.New("db down")
	w = doJSON(r, http.MethodPost, "/auth/login", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"numero_colegiado": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_HandleCreateAdmin_VoterForbidden(t *testing.T) {
	r := newAuthRouter(&authServiceStub{})

	w := doJSON(r, http.MethodPost, "/auth/admin", registerBody)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
