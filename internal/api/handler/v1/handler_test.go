package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hungtabe/ezevent-api/internal/api/middleware"
	"github.com/hungtabe/ezevent-api/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserService struct {
	getUserFn func(ctx context.Context, id uint) (domain.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	return m.getUserFn(ctx, id)
}

func userServiceReturning(user domain.User) *mockUserService {
	return &mockUserService{
		getUserFn: func(_ context.Context, _ uint) (domain.User, error) {
			return user, nil
		},
	}
}

// asUser mimics a verified token for the given user ID.
func asUser(userID uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.CtxKeyUserID, userID)
		ctx.Next()
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	return body
}

func TestHandleHealthcheck(t *testing.T) {
	router := gin.New()
	router.GET("/", HandleHealthcheck)

	resp := doRequest(t, router, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "Hello, world!", resp.Body.String())
}
