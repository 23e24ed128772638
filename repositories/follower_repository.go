package repositories

import (
	"context"

	"foodgram-backend/models"

	"gorm.io/gorm"
)

type FollowerRepository interface {
	WithTx(tx *gorm.DB) FollowerRepository
	Create(ctx context.Context, follower *models.Follower) error
	Delete(ctx context.Context, userID, followingUserID uint) (int64, error)
	FollowedAmong(ctx context.Context, userID uint, candidateIDs []uint) (map[uint]bool, error)
	ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error)
}

type followerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) WithTx(tx *gorm.DB) FollowerRepository {
	return &followerRepository{db: tx}
}

func (r *followerRepository) Create(ctx context.Context, follower *models.Follower) error {
	return r.db.WithContext(ctx).Omit("FollowingUser").Create(follower).Error
}

func (r *followerRepository) Delete(ctx context.Context, userID, followingUserID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND following_user_id = ?", userID, followingUserID).
		Delete(&models.Follower{})
	return result.RowsAffected, result.Error
}

// FollowedAmong reports which of candidateIDs userID follows.
func (r *followerRepository) FollowedAmong(ctx context.Context, userID uint, candidateIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(candidateIDs))
	if userID == 0 || len(candidateIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ? AND following_user_id IN ?", userID, candidateIDs).
		Pluck("following_user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func (r *followerRepository) ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follower{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN followers ON followers.following_user_id = users.id").
		Where("followers.user_id = ?", userID).
		Order("followers.created_at DESC, users.id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}
