package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hungtabe/ezevent-api/internal/api/handler/v1/response"
	"github.com/hungtabe/ezevent-api/internal/pkg/jwthelper"
)

// Context keys populated by VerifyJWT.
const (
	CtxKeyUserID    = "userID"
	CtxKeyUserEmail = "userEmail"
	CtxKeyUserRole  = "userRole"
)

var (
	errMissingToken = errors.New("authorization token is missing")
	errInvalidToken = errors.New("authorization token is invalid")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// decoded identity on the request context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errInvalidToken))
			return
		}

		ctx.Set(CtxKeyUserID, claims.UserID)
		ctx.Set(CtxKeyUserEmail, claims.Email)
		ctx.Set(CtxKeyUserRole, claims.Role)

		ctx.Next()
	}
}

// RequireRoles lets the request through only when the token's role is one of
// the given roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString(CtxKeyUserRole)
		for _, allowed := range roles {
			if role == allowed {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(
			fmt.Errorf("role %v is not allowed to access this resource", role),
		))
	}
}
