package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungtabe/ezevent-api/internal/pkg/jwthelper"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSigningKey = "test-signing-key"

func newProtectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()

	chain := append([]gin.HandlerFunc{NewAuthenticator(testSigningKey).VerifyJWT()}, handlers...)
	chain = append(chain, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id": ctx.GetUint(CtxKeyUserID),
			"role":    ctx.GetString(CtxKeyUserRole),
		})
	})
	router.GET("/protected", chain...)

	return router
}

func TestVerifyJWT(t *testing.T) {
	t.Run("valid token populates the context", func(t *testing.T) {
		signed, err := jwthelper.GenerateToken([]byte(testSigningKey), 42, "jamie@example.com", "STUDENT")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp := httptest.NewRecorder()
		newProtectedRouter().ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"user_id":42`)
		assert.Contains(t, resp.Body.String(), `"role":"STUDENT"`)
	})

	t.Run("missing header returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp := httptest.NewRecorder()
		newProtectedRouter().ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("malformed header returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp := httptest.NewRecorder()
		newProtectedRouter().ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("token signed with another key returns 401", func(t *testing.T) {
		signed, err := jwthelper.GenerateToken([]byte("other-key"), 42, "jamie@example.com", "STUDENT")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp := httptest.NewRecorder()
		newProtectedRouter().ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("allowed role passes", func(t *testing.T) {
		signed, err := jwthelper.GenerateToken([]byte(testSigningKey), 1, "admin@example.com", "ADMIN")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp := httptest.NewRecorder()
		newProtectedRouter(RequireRoles("ADMIN")).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("other role returns 403", func(t *testing.T) {
		signed, err := jwthelper.GenerateToken([]byte(testSigningKey), 5, "jamie@example.com", "STUDENT")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp := httptest.NewRecorder()
		newProtectedRouter(RequireRoles("ADMIN")).ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
