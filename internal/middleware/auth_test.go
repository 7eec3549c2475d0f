package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram-v2/backend/internal/middleware"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token == "good" && s.claims != nil {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func newEngine(validator middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/private", middleware.AuthRequired(validator), func(c *gin.Context) {
		id, _ := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	engine.GET("/public", middleware.AuthOptional(validator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": middleware.Viewer(c) == nil})
	})
	return engine
}

func get(engine *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	engine := newEngine(&stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}})

	rec := get(engine, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(engine, "/private", "NotBearer good")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(engine, "/private", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(engine, "/private", "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestAuthOptional(t *testing.T) {
	engine := newEngine(&stubValidator{claims: &types.TokenClaims{UserID: uuid.New()}})

	// anonymous and garbage tokens both pass through
	rec := get(engine, "/public", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")

	rec = get(engine, "/public", "Bearer bad")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")

	rec = get(engine, "/public", "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "false")
}
