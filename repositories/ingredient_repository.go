package repositories

import (
	"context"
	"strings"

	"foodgram-backend/models"

	"gorm.io/gorm"
)

type IngredientRepository interface {
	WithTx(tx *gorm.DB) IngredientRepository
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) WithTx(tx *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: tx}
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).Preload("Unit").First(&ingredient, id).Error
	return &ingredient, err
}

func (r *ingredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Preload("Unit")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) ESCAPE '\\'", escapeLike(namePrefix)+"%")
	}

	var ingredients []models.Ingredient
	err := query.Order("name").Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
