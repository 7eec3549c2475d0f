package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram-v2/backend/internal/models"
	"github.com/pageza/foodgram-v2/backend/internal/types"
)

// UserService serves user profiles and the follow graph.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get returns one user's profile projection for an optional viewer.
func (s *UserService) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*types.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := userProjection(s.db.WithContext(ctx), user, viewer)
	return &resp, nil
}

// List returns all user profiles for an optional viewer.
func (s *UserService) List(ctx context.Context, viewer *uuid.UUID, limit, offset int) ([]types.UserResponse, error) {
	query := s.db.WithContext(ctx).Order("username")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	result := make([]types.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, userProjection(s.db.WithContext(ctx), &users[i], viewer))
	}
	return result, nil
}

// Subscribe creates the follow edge user -> author. Self-follows and
// duplicate edges are rejected; the response carries the author with
// their recipes and recipe count.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*types.SubscriptionResponse, error) {
	author, err := s.load(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, validationError("cannot follow yourself")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, validationError("already following")
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		// unique index on (user_id, author_id) closes the race
		return nil, validationError("already following")
	}
	return s.subscription(ctx, author, 0)
}

// Unsubscribe removes the follow edge.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.load(ctx, authorID); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return validationError("not following")
	}
	return nil
}

// Subscriptions lists every author the user follows, each annotated
// with up to recipesLimit recipes (0 = all) and their recipe count.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]types.SubscriptionResponse, error) {
	var follows []models.Follow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&follows).Error; err != nil {
		return nil, err
	}
	result := make([]types.SubscriptionResponse, 0, len(follows))
	for _, follow := range follows {
		author, err := s.load(ctx, follow.AuthorID)
		if err != nil {
			return nil, err
		}
		sub, err := s.subscription(ctx, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, nil
}

func (s *UserService) subscription(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionResponse, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	resp := types.SubscriptionResponse{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      make([]types.ShortRecipeResponse, 0, len(recipes)),
		RecipesCount: total,
	}
	for i := range recipes {
		resp.Recipes = append(resp.Recipes, shortRecipeProjection(&recipes[i]))
	}
	return &resp, nil
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundf("user %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
