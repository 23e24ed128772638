package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/repositories"
	"foodgram-backend/storage"

	"gorm.io/gorm"
)

const shoppingCartHeader = "Ингредиенты:"

type UserRecipeService interface {
	AddFavorite(ctx context.Context, userID, recipeID uint) (*models.RecipeShortResponse, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.RecipeShortResponse, error)
	RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error
	DownloadShoppingCart(ctx context.Context, userID uint) ([]byte, error)
}

type userRecipeService struct {
	tx      repositories.Transactor
	recipes repositories.RecipeRepository
	marks   repositories.UserRecipeRepository
	images  storage.ImageStore
}

func NewUserRecipeService(tx repositories.Transactor, recipes repositories.RecipeRepository, marks repositories.UserRecipeRepository, images storage.ImageStore) UserRecipeService {
	return &userRecipeService{tx: tx, recipes: recipes, marks: marks, images: images}
}

type flagMessages struct {
	already string
	absent  string
}

var toggleMessages = map[repositories.RecipeFlag]flagMessages{
	repositories.FlagFavorite:       {already: "recipe already in favorites", absent: "recipe not in favorites"},
	repositories.FlagInShoppingCart: {already: "recipe already in shopping cart", absent: "recipe not in shopping cart"},
}

func (s *userRecipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.RecipeShortResponse, error) {
	return s.add(ctx, userID, recipeID, repositories.FlagFavorite)
}

func (s *userRecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	_, err := s.toggle(ctx, userID, recipeID, repositories.FlagFavorite, false)
	return err
}

func (s *userRecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (*models.RecipeShortResponse, error) {
	return s.add(ctx, userID, recipeID, repositories.FlagInShoppingCart)
}

func (s *userRecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	_, err := s.toggle(ctx, userID, recipeID, repositories.FlagInShoppingCart, false)
	return err
}

// DownloadShoppingCart renders the summed ingredients of every recipe in the cart.
func (s *userRecipeService) DownloadShoppingCart(ctx context.Context, userID uint) ([]byte, error) {
	items, err := s.recipes.CartIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect shopping cart: %w", err)
	}
	return formatShoppingCart(items), nil
}

func (s *userRecipeService) add(ctx context.Context, userID, recipeID uint, flag repositories.RecipeFlag) (*models.RecipeShortResponse, error) {
	recipe, err := s.toggle(ctx, userID, recipeID, flag, true)
	if err != nil {
		return nil, err
	}
	res := shortRecipeResponse(*recipe, s.images)
	return &res, nil
}

// toggle moves flag to value. The row is created on first use; a flag that
// already holds value is a Conflict when adding and NotFound when removing.
func (s *userRecipeService) toggle(ctx context.Context, userID, recipeID uint, flag repositories.RecipeFlag, value bool) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "recipe not found"}
		}
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		marks := s.marks.WithTx(tx)
		row, err := marks.GetOrCreate(ctx, userID, recipeID)
		if err != nil {
			return fmt.Errorf("failed to load recipe marks: %w", err)
		}

		changed, err := marks.SetFlag(ctx, row.ID, flag, value)
		if err != nil {
			return fmt.Errorf("failed to update recipe marks: %w", err)
		}
		if !changed {
			if value {
				return models.ErrorConflict{Message: toggleMessages[flag].already}
			}
			return models.ErrorNotFound{Message: toggleMessages[flag].absent}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("recipe mark changed", "user_id", userID, "recipe_id", recipeID, "flag", string(flag), "value", value)
	return recipe, nil
}

func formatShoppingCart(items []models.CartItem) []byte {
	var buf bytes.Buffer
	buf.WriteString(shoppingCartHeader)
	buf.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&buf, "%s: %s (%s)\n", item.Name, strconv.FormatFloat(item.Amount, 'f', -1, 64), item.Unit)
	}
	return buf.Bytes()
}
