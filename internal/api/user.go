package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram-v2/backend/internal/middleware"
	"github.com/pageza/foodgram-v2/backend/internal/service"
)

// UserHandler serves user profiles and the subscription graph.
type UserHandler struct {
	users *service.UserService
	auth  middleware.TokenValidator
}

func NewUserHandler(users *service.UserService, auth middleware.TokenValidator) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.AuthOptional(h.auth), h.ListUsers)
		users.GET("/me", middleware.AuthRequired(h.auth), h.Me)
		users.GET("/subscriptions", middleware.AuthRequired(h.auth), h.Subscriptions)
		users.GET("/:id", middleware.AuthOptional(h.auth), h.GetUser)

		users.POST("/:id/subscribe", middleware.AuthRequired(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthRequired(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), middleware.Viewer(c), intQuery(c, "limit"), intQuery(c, "offset"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	subs, err := h.users.Subscriptions(c.Request.Context(), userID, intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	sub, err := h.users.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.users.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
