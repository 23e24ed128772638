package repositories

import (
	"context"

	"foodgram-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFlag names a per-user boolean column of user_recipes.
type RecipeFlag string

const (
	FlagFavorite       RecipeFlag = "is_favorite"
	FlagInShoppingCart RecipeFlag = "is_in_shopping_cart"
)

type UserRecipeRepository interface {
	WithTx(tx *gorm.DB) UserRecipeRepository
	GetOrCreate(ctx context.Context, userID, recipeID uint) (*models.UserRecipe, error)
	SetFlag(ctx context.Context, id uint, flag RecipeFlag, value bool) (bool, error)
	GetForRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]models.UserRecipe, error)
}

type userRecipeRepository struct {
	db *gorm.DB
}

func NewUserRecipeRepository(db *gorm.DB) UserRecipeRepository {
	return &userRecipeRepository{db: db}
}

func (r *userRecipeRepository) WithTx(tx *gorm.DB) UserRecipeRepository {
	return &userRecipeRepository{db: tx}
}

// GetOrCreate inserts the (user, recipe) row unless it exists and returns the stored row.
// Concurrent callers end up reading the same row.
func (r *userRecipeRepository) GetOrCreate(ctx context.Context, userID, recipeID uint) (*models.UserRecipe, error) {
	row := models.UserRecipe{UserID: userID, RecipeID: recipeID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	var stored models.UserRecipe
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&stored).Error
	return &stored, err
}

// SetFlag sets flag to value only if it currently holds the opposite value.
// It reports whether the row changed.
func (r *userRecipeRepository) SetFlag(ctx context.Context, id uint, flag RecipeFlag, value bool) (bool, error) {
	column := string(flag)
	result := r.db.WithContext(ctx).Model(&models.UserRecipe{}).
		Where("id = ? AND "+column+" = ?", id, !value).
		Update(column, value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRecipeRepository) GetForRecipes(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]models.UserRecipe, error) {
	marks := make(map[uint]models.UserRecipe, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return marks, nil
	}

	var rows []models.UserRecipe
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		marks[row.RecipeID] = row
	}
	return marks, nil
}
