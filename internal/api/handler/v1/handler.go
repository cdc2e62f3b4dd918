package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hungtabe/ezevent-api/internal/api/handler/v1/response"
	"github.com/hungtabe/ezevent-api/internal/api/middleware"
	"github.com/hungtabe/ezevent-api/internal/domain"
)

// UserService is shared by handlers that resolve the authenticated caller.
type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello, world!")
}

// getUserFromContext loads the full user behind the verified token. Role and
// ownership checks run against the stored user, not the token snapshot.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	userID := ctx.GetUint(middleware.CtxKeyUserID)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthorized(errors.New("no authenticated user on request"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized(fmt.Errorf("failed to load user %v", userID))
	}

	return user, nil
}

func parseUintQuery(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}

	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid query parameter %q", name)
	}

	return uint(value), nil
}
