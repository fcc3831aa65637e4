package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitvibe/coach-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, userID primitive.ObjectID, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "coach-app",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("", AuthMiddleware(testSecret))
	protected.GET("/whoami", func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		role, _ := getUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
	})
	protected.GET("/coach-only", RoleMiddleware(domain.RoleCoach), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter()
	userID := primitive.NewObjectID()

	t.Run("valid token passes identity through", func(t *testing.T) {
		token := signToken(t, userID, domain.RoleClient, time.Hour)
		w := doRequest(router, "/whoami", "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.Hex())
		assert.Contains(t, w.Body.String(), "client")
	})

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(router, "/whoami", "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, userID, domain.RoleClient, -time.Minute)
		w := doRequest(router, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		claims := &jwtClaims{UserID: userID.Hex(), Role: domain.RoleClient}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		w := doRequest(router, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	router := newAuthTestRouter()

	t.Run("allowed role", func(t *testing.T) {
		token := signToken(t, primitive.NewObjectID(), domain.RoleCoach, time.Hour)
		w := doRequest(router, "/coach-only", "Bearer "+token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("disallowed role", func(t *testing.T) {
		token := signToken(t, primitive.NewObjectID(), domain.RoleClient, time.Hour)
		w := doRequest(router, "/coach-only", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
