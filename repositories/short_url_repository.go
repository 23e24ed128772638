package repositories

import (
	"context"

	"foodgram-backend/models"

	"gorm.io/gorm"
)

type ShortURLRepository interface {
	GetByURL(ctx context.Context, url string) (*models.ShortURL, error)
	GetByShortcode(ctx context.Context, shortcode string) (*models.ShortURL, error)
	ShortcodeExists(ctx context.Context, shortcode string) (bool, error)
	Create(ctx context.Context, shortURL *models.ShortURL) error
}

type shortURLRepository struct {
	db *gorm.DB
}

func NewShortURLRepository(db *gorm.DB) ShortURLRepository {
	return &shortURLRepository{db: db}
}

func (r *shortURLRepository) GetByURL(ctx context.Context, url string) (*models.ShortURL, error) {
	var shortURL models.ShortURL
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&shortURL).Error
	return &shortURL, err
}

// GetByShortcode matches case-insensitively.
func (r *shortURLRepository) GetByShortcode(ctx context.Context, shortcode string) (*models.ShortURL, error) {
	var shortURL models.ShortURL
	err := r.db.WithContext(ctx).Where("LOWER(shortcode) = LOWER(?)", shortcode).First(&shortURL).Error
	return &shortURL, err
}

func (r *shortURLRepository) ShortcodeExists(ctx context.Context, shortcode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShortURL{}).
		Where("LOWER(shortcode) = LOWER(?)", shortcode).
		Count(&count).Error
	return count > 0, err
}

func (r *shortURLRepository) Create(ctx context.Context, shortURL *models.ShortURL) error {
	return r.db.WithContext(ctx).Create(shortURL).Error
}
