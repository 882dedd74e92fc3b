package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, secret string, userID primitive.ObjectID, roles []domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := &service.Claims{
		UserID: userID.Hex(),
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter(extraMiddleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extraMiddleware...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		roles, _ := getUserRolesFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "roles": roles})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := newProtectedRouter()
	userID := primitive.NewObjectID()
	token := signToken(t, testSecret, userID, []domain.Role{domain.RoleTrainee}, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), userID.Hex())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	router := newProtectedRouter()
	userID := primitive.NewObjectID()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "NotBearer xyz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", userID, []domain.Role{domain.RoleTrainee}, time.Hour)},
		{"expired token", "Bearer " + signToken(t, testSecret, userID, []domain.Role{domain.RoleTrainee}, -time.Minute)},
		{"no roles claim", "Bearer " + signToken(t, testSecret, userID, nil, time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	router := newProtectedRouter(RoleMiddleware(domain.RoleTrainer))
	userID := primitive.NewObjectID()

	t.Run("role held", func(t *testing.T) {
		token := signToken(t, testSecret, userID, []domain.Role{domain.RoleTrainer, domain.RoleTrainee}, time.Hour)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("role missing", func(t *testing.T) {
		token := signToken(t, testSecret, userID, []domain.Role{domain.RoleTrainee}, time.Hour)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}
