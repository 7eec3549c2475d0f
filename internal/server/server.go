package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/config"
	"github.com/pageza/foodgram-v2/backend/internal/api"
	"github.com/pageza/foodgram-v2/backend/internal/router"
	"github.com/pageza/foodgram-v2/backend/internal/service"
)

// Server wires services, handlers and the HTTP listener together.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New builds the full service graph on top of the given database and
// redis connections.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config) *Server {
	images := service.NewImageService(s3Config, cfg.MediaDir, cfg.MediaBaseURL)
	auth := service.NewAuthService(db, redisClient, cfg.JWTSecret)
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

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving HTTP until the listener fails or is shut down.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
