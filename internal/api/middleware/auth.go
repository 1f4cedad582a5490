package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/votaciones-campus/api/internal/api/handler/v1/response"
	"github.com/votaciones-campus/api/internal/domain"
	"github.com/votaciones-campus/api/internal/pkg/jwthelper"
)

const ContextKeyPrincipal = "principal"

var (
	errMissingToken = errors.New("missing bearer token")
	errRoleDenied   = errors.New("your role is not allowed to perform this action")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{
		key: []byte(key),
	}
}

// VerifyJWT authenticates the request with the token of its Authorization header.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return a.verify(bearerToken)
}

// VerifyJWTFromQuery also accepts a token query parameter when the Authorization
// header is absent. Browsers can not set headers on websocket upgrades, so only
// the live results route is mounted behind it.
func (a *Authenticator) VerifyJWTFromQuery() gin.HandlerFunc {
	return a.verify(func(ctx *gin.Context) string {
		if ctx.GetHeader("Authorization") != "" {
			return bearerToken(ctx)
		}

		return ctx.Query("token")
	})
}

func (a *Authenticator) verify(extract func(*gin.Context) string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extract(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("jwthelper.ParseToken -> %w", err)))
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("claims.Principal -> %w", err)))
			return
		}

		ctx.Set(ContextKeyPrincipal, principal)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	scheme, token, ok := strings.Cut(ctx.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// RequireRole rejects principals whose role is not listed. It must run after VerifyJWT.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *gin.Context) {
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}
		if !allowed[principal.Role] {
			response.RenderErr(ctx, response.ErrPermissionDenied(errRoleDenied))
			return
		}

		ctx.Next()
	}
}

func PrincipalFromContext(ctx *gin.Context) (domain.Principal, bool) {
	v, ok := ctx.Get(ContextKeyPrincipal)
	if !ok {
		return domain.Principal{}, false
	}

	principal, ok := v.(domain.Principal)
	return principal, ok
}
