package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/repositories"
	"foodgram-backend/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	avatarDir          = "users"
	defaultUserPageLen = 6
)

type UserService interface {
	GetUsers(ctx context.Context, viewerID uint, params *models.PageParams) ([]models.UserResponse, int64, error)
	GetUser(ctx context.Context, viewerID, id uint) (*models.UserResponse, error)
	SetPassword(ctx context.Context, userID uint, req models.SetPasswordRequest) error
	UpdateAvatar(ctx context.Context, userID uint, req models.AvatarRequest) (*models.AvatarResponse, error)
	DeleteAvatar(ctx context.Context, userID uint) error
	Subscribe(ctx context.Context, userID, targetID uint, recipesLimit *int) (*models.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, targetID uint) error
	GetSubscriptions(ctx context.Context, userID uint, params *models.SubscriptionListParams) ([]models.SubscriptionResponse, int64, error)
}

type userService struct {
	users     repositories.UserRepository
	followers repositories.FollowerRepository
	recipes   repositories.RecipeRepository
	images    storage.ImageStore
}

func NewUserService(users repositories.UserRepository, followers repositories.FollowerRepository, recipes repositories.RecipeRepository, images storage.ImageStore) UserService {
	return &userService{users: users, followers: followers, recipes: recipes, images: images}
}

func (s *userService) GetUsers(ctx context.Context, viewerID uint, params *models.PageParams) ([]models.UserResponse, int64, error) {
	offset := params.Normalize(defaultUserPageLen)
	users, total, err := s.users.List(ctx, offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.followers.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userResponse(u, followed[u.ID], s.images))
	}
	return responses, total, nil
}

func (s *userService) GetUser(ctx context.Context, viewerID, id uint) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := s.followers.FollowedAmong(ctx, viewerID, []uint{id})
	if err != nil {
		return nil, err
	}
	res := userResponse(*user, followed[id], s.images)
	return &res, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, req models.SetPasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return models.NewValidationError("current_password", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, req models.AvatarRequest) (*models.AvatarResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := storage.SaveDataURI(ctx, s.images, avatarDir, req.Avatar)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return nil, models.NewValidationError("avatar", "must be a base64 encoded image")
		}
		return nil, err
	}

	if err := s.users.UpdateAvatar(ctx, userID, key); err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}
	s.discardImage(ctx, user.Avatar)

	return &models.AvatarResponse{Avatar: s.images.URL(key)}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatar(ctx, userID, ""); err != nil {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	s.discardImage(ctx, user.Avatar)
	return nil
}

func (s *userService) Subscribe(ctx context.Context, userID, targetID uint, recipesLimit *int) (*models.SubscriptionResponse, error) {
	target, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if userID == targetID {
		return nil, models.ErrorConflict{Message: "you cannot subscribe to yourself"}
	}

	err = s.followers.Create(ctx, &models.Follower{UserID: userID, FollowingUserID: targetID})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "you are already subscribed to this user"}
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	logger.Info("user subscribed", "user_id", userID, "following_user_id", targetID)

	subs, err := s.subscriptions(ctx, []models.User{*target}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, userID, targetID uint) error {
	if _, err := s.getUser(ctx, targetID); err != nil {
		return err
	}
	removed, err := s.followers.Delete(ctx, userID, targetID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if removed == 0 {
		return models.ErrorConflict{Message: "you are not subscribed to this user"}
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID uint, params *models.SubscriptionListParams) ([]models.SubscriptionResponse, int64, error) {
	offset := params.Normalize(defaultUserPageLen)
	users, total, err := s.followers.ListFollowing(ctx, userID, offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	subs, err := s.subscriptions(ctx, users, params.RecipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// subscriptions renders followed users; they are subscribed by definition.
func (s *userService) subscriptions(ctx context.Context, users []models.User, recipesLimit *int) ([]models.SubscriptionResponse, error) {
	limit := -1
	if recipesLimit != nil && *recipesLimit >= 0 {
		limit = *recipesLimit
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	subs := make([]models.SubscriptionResponse, 0, len(users))
	for _, u := range users {
		recipes := []models.RecipeShortResponse{}
		if limit != 0 {
			authored, err := s.recipes.ListByAuthor(ctx, u.ID, limit)
			if err != nil {
				return nil, err
			}
			for _, r := range authored {
				recipes = append(recipes, shortRecipeResponse(r, s.images))
			}
		}
		subs = append(subs, models.SubscriptionResponse{
			UserResponse: userResponse(u, true, s.images),
			Recipes:      recipes,
			RecipesCount: counts[u.ID],
		})
	}
	return subs, nil
}

func (s *userService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete avatar", "key", key, "error", err)
	}
}
