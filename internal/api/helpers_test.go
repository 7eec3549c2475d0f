package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/api"
	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/router"
	"github.com/pageza/foodgram-v2/backend/internal/service"
)

// newTestServer wires the full route table onto an isolated in-memory
// database, the same graph the real server builds.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	images := service.NewImageService(nil, t.TempDir(), "/media")
	auth := service.NewAuthService(db, nil, "test-secret")
	users := service.NewUserService(db)
	recipes := service.NewRecipeService(db, images)
	interactions := service.NewInteractionService(db)
	shoppingList := service.NewShoppingListService(db)

	engine := router.SetupRouter(
		db,
		api.NewAuthHandler(auth),
		api.NewUserHandler(users, auth),
		api.NewTagHandler(db),
		api.NewIngredientHandler(db),
		api.NewRecipeHandler(recipes, interactions, shoppingList, auth),
	)
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerUser creates an account over HTTP and returns a login token.
func registerUser(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)

	rec := doJSON(t, engine, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, engine, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}
