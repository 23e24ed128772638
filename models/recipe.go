package models

import (
	"time"
)

type Recipe struct {
	ID                uint               `json:"id" gorm:"primarykey"`
	Name              string             `json:"name" gorm:"uniqueIndex;size:256;not null"`
	AuthorID          uint               `json:"author_id" gorm:"not null;index"`
	Author            User               `json:"-" gorm:"foreignKey:AuthorID"`
	Text              string             `json:"text" gorm:"type:text;not null"`
	CookingTime       int                `json:"cooking_time" gorm:"not null"`
	Image             string             `json:"image" gorm:"size:255"`
	RecipeIngredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
	RecipeTags        []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID"`
	CreatedAt         time.Time          `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// RecipeIngredient is the join row between a recipe and an ingredient.
type RecipeIngredient struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	RecipeID     uint       `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `json:"-" gorm:"foreignKey:IngredientID"`
	Amount       float64    `json:"amount" gorm:"not null"`
}

// RecipeTag is the join row between a recipe and a tag.
type RecipeTag struct {
	ID       uint `json:"id" gorm:"primarykey"`
	RecipeID uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_tag"`
	TagID    uint `json:"tag_id" gorm:"not null;uniqueIndex:idx_recipe_tag"`
	Tag      Tag  `json:"-" gorm:"foreignKey:TagID"`
}

// UserRecipe keeps the per-user favorite and shopping cart marks of a recipe.
// Rows are created lazily, at most one per (user, recipe).
type UserRecipe struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_recipe"`
	RecipeID         uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_user_recipe;index"`
	IsFavorite       bool      `json:"is_favorite" gorm:"not null;default:false"`
	IsInShoppingCart bool      `json:"is_in_shopping_cart" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
