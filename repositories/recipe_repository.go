package repositories

import (
	"context"

	"foodgram-backend/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows recipe listings. Favorited and InShoppingCart apply
// only when ViewerID is set.
type RecipeFilter struct {
	AuthorID       uint
	TagSlugs       []string
	ViewerID       uint
	Favorited      *bool
	InShoppingCart *bool
}

type RecipeRepository interface {
	WithTx(tx *gorm.DB) RecipeRepository
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetDetailed(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	ReplaceAssociations(ctx context.Context, recipeID uint, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error
	CartIngredients(ctx context.Context, userID uint) ([]models.CartItem, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	return &recipeRepository{db: tx}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Omit("Author", "RecipeIngredients", "RecipeTags").Create(recipe).Error
}

func (r *recipeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Recipe{ID: id}).Updates(fields).Error
}

// Delete removes the recipe together with its join and per-user rows.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", id).Delete(&models.UserRecipe{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Recipe{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).First(&recipe, id).Error
	return &recipe, err
}

func (r *recipeRepository) GetDetailed(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.preloaded(ctx).First(&recipe, id).Error
	return &recipe, err
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Model(&models.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := r.filtered(ctx, filter).
		Scopes(r.withAssociations).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

// ListByAuthor returns the newest recipes of an author; a negative limit means all.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// ReplaceAssociations drops every ingredient and tag row of the recipe and
// bulk-inserts the given set. Callers validate ids first and run it in a transaction.
func (r *recipeRepository) ReplaceAssociations(ctx context.Context, recipeID uint, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}

	for i := range ingredients {
		ingredients[i].RecipeID = recipeID
	}
	for i := range tags {
		tags[i].RecipeID = recipeID
	}

	if len(ingredients) > 0 {
		if err := db.Omit("Ingredient").Create(&ingredients).Error; err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := db.Omit("Tag").Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// CartIngredients sums amounts per ingredient over every recipe in the user's cart.
func (r *recipeRepository) CartIngredients(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Table("recipe_ingredients").
		Select("ingredients.name AS name, units.name AS unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN user_recipes ON user_recipes.recipe_id = recipe_ingredients.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN units ON units.id = ingredients.unit_id").
		Where("user_recipes.user_id = ? AND user_recipes.is_in_shopping_cart = ?", userID, true).
		Group("ingredients.name, units.name").
		Order("ingredients.name").
		Scan(&items).Error
	return items, err
}

func (r *recipeRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(r.withAssociations)
}

func (r *recipeRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("RecipeIngredients.Ingredient.Unit").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("RecipeTags.Tag")
}

func (r *recipeRepository) filtered(ctx context.Context, filter RecipeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.ViewerID != 0 {
		query = r.flagFilter(query, filter.ViewerID, "is_favorite", filter.Favorited)
		query = r.flagFilter(query, filter.ViewerID, "is_in_shopping_cart", filter.InShoppingCart)
	}
	return query
}

// flagFilter keeps recipes whose per-user flag matches want; a missing
// UserRecipe row counts as false.
func (r *recipeRepository) flagFilter(query *gorm.DB, userID uint, column string, want *bool) *gorm.DB {
	if want == nil {
		return query
	}
	marked := r.db.Model(&models.UserRecipe{}).
		Select("recipe_id").
		Where("user_id = ? AND "+column+" = ?", userID, true)
	if *want {
		return query.Where("recipes.id IN (?)", marked)
	}
	return query.Where("recipes.id NOT IN (?)", marked)
}
