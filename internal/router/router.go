package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/api"
	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	db *gorm.DB,
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	recipeHandler *api.RecipeHandler,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := router.Group("/api")
	authHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root)
	tagHandler.RegisterRoutes(root)
	ingredientHandler.RegisterRoutes(root)
	recipeHandler.RegisterRoutes(root)

	return router
}
