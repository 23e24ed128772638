package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/repositories"
	"foodgram-backend/storage"

	"gorm.io/gorm"
)

const (
	recipeImageDir       = "recipes/images"
	defaultRecipePageLen = 6
)

type RecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, req models.CreateRecipeRequest) (*models.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, actor models.Actor, id uint, req models.UpdateRecipeRequest) (*models.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, actor models.Actor, id uint) error
	GetRecipe(ctx context.Context, viewerID, id uint) (*models.RecipeResponse, error)
	GetRecipes(ctx context.Context, viewerID uint, params *models.RecipeListParams) ([]models.RecipeResponse, int64, error)
	GetShortLink(ctx context.Context, id uint, host string, secure bool) (string, error)
}

type recipeService struct {
	tx          repositories.Transactor
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	tags        repositories.TagRepository
	followers   repositories.FollowerRepository
	marks       repositories.UserRecipeRepository
	shortURLs   ShortURLService
	images      storage.ImageStore
}

func NewRecipeService(
	tx repositories.Transactor,
	recipes repositories.RecipeRepository,
	ingredients repositories.IngredientRepository,
	tags repositories.TagRepository,
	followers repositories.FollowerRepository,
	marks repositories.UserRecipeRepository,
	shortURLs ShortURLService,
	images storage.ImageStore,
) RecipeService {
	return &recipeService{
		tx:          tx,
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		followers:   followers,
		marks:       marks,
		shortURLs:   shortURLs,
		images:      images,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, req models.CreateRecipeRequest) (*models.RecipeResponse, error) {
	imageKey, err := s.saveImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        req.Name,
		AuthorID:    authorID,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imageKey,
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.recipes.WithTx(tx).Create(ctx, recipe); err != nil {
			return recipeWriteError(err)
		}
		return s.writeAssociations(ctx, tx, recipe.ID, req.Ingredients, req.Tags)
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		return nil, err
	}

	logger.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.GetRecipe(ctx, authorID, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, actor models.Actor, id uint, req models.UpdateRecipeRequest) (*models.RecipeResponse, error) {
	recipe, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	if req.CookingTime != nil {
		fields["cooking_time"] = *req.CookingTime
	}

	var newImage string
	if req.Image != nil {
		if newImage, err = s.saveImage(ctx, *req.Image); err != nil {
			return nil, err
		}
		fields["image"] = newImage
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.recipes.WithTx(tx).Update(ctx, id, fields); err != nil {
			return recipeWriteError(err)
		}
		return s.writeAssociations(ctx, tx, id, req.Ingredients, req.Tags)
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		return nil, err
	}
	if newImage != "" {
		s.discardImage(ctx, recipe.Image)
	}

	logger.Info("recipe updated", "recipe_id", id, "user_id", actor.UserID)
	return s.GetRecipe(ctx, actor.UserID, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, actor models.Actor, id uint) error {
	recipe, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.recipes.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "recipe not found"}
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.discardImage(ctx, recipe.Image)
	logger.Info("recipe deleted", "recipe_id", id, "user_id", actor.UserID)
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, viewerID, id uint) (*models.RecipeResponse, error) {
	recipe, err := s.recipes.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "recipe not found"}
		}
		return nil, err
	}

	responses, err := s.present(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, viewerID uint, params *models.RecipeListParams) ([]models.RecipeResponse, int64, error) {
	offset := params.Normalize(defaultRecipePageLen)

	filter := repositories.RecipeFilter{
		AuthorID: params.Author,
		TagSlugs: params.Tags,
		ViewerID: viewerID,
	}
	if viewerID != 0 {
		filter.Favorited = flagParam(params.IsFavorited)
		filter.InShoppingCart = flagParam(params.IsInShoppingCart)
	}

	recipes, total, err := s.recipes.List(ctx, filter, offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.present(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *recipeService) GetShortLink(ctx context.Context, id uint, host string, secure bool) (string, error) {
	if _, err := s.recipes.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.ErrorNotFound{Message: "recipe not found"}
		}
		return "", err
	}
	return s.shortURLs.Shorten(ctx, fmt.Sprintf("%s/recipes/%d", host, id), host, secure)
}

// writeAssociations validates the ingredient and tag payload against the
// current transaction and replaces the recipe's join rows. Any invalid id
// aborts the transaction with a field-level validation error.
func (s *recipeService) writeAssociations(ctx context.Context, tx *gorm.DB, recipeID uint, inputs []models.RecipeIngredientInput, tagIDs []uint) error {
	verr := models.ErrorValidation{Fields: map[string][]string{}}
	addErr := func(field, msg string) {
		verr.Fields[field] = append(verr.Fields[field], msg)
	}

	if len(inputs) == 0 {
		addErr("ingredients", "at least one ingredient is required")
	}
	if len(tagIDs) == 0 {
		addErr("tags", "at least one tag is required")
	}

	ingredientIDs := make([]uint, 0, len(inputs))
	rows := make([]models.RecipeIngredient, 0, len(inputs))
	seen := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.ID] {
			addErr("ingredients", fmt.Sprintf("ingredient %d is listed more than once", in.ID))
			continue
		}
		seen[in.ID] = true
		if in.Amount <= 0 {
			addErr("ingredients", fmt.Sprintf("amount of ingredient %d must be greater than 0", in.ID))
		}
		ingredientIDs = append(ingredientIDs, in.ID)
		rows = append(rows, models.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount})
	}

	uniqueTags := make([]uint, 0, len(tagIDs))
	tagRows := make([]models.RecipeTag, 0, len(tagIDs))
	seenTags := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seenTags[id] {
			addErr("tags", fmt.Sprintf("tag %d is listed more than once", id))
			continue
		}
		seenTags[id] = true
		uniqueTags = append(uniqueTags, id)
		tagRows = append(tagRows, models.RecipeTag{TagID: id})
	}

	foundIngredients, err := s.ingredients.WithTx(tx).ExistingIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to check ingredients: %w", err)
	}
	for _, id := range missingIDs(ingredientIDs, foundIngredients) {
		addErr("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
	}

	foundTags, err := s.tags.WithTx(tx).ExistingIDs(ctx, uniqueTags)
	if err != nil {
		return fmt.Errorf("failed to check tags: %w", err)
	}
	for _, id := range missingIDs(uniqueTags, foundTags) {
		addErr("tags", fmt.Sprintf("tag %d does not exist", id))
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	if err := s.recipes.WithTx(tx).ReplaceAssociations(ctx, recipeID, rows, tagRows); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewValidationError("ingredients", "ingredients and tags must be unique")
		}
		return fmt.Errorf("failed to write recipe associations: %w", err)
	}
	return nil
}

func (s *recipeService) loadOwned(ctx context.Context, actor models.Actor, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "recipe not found"}
		}
		return nil, err
	}
	if !actor.CanModify(recipe.AuthorID) {
		return nil, models.ErrorForbidden{Message: "only the author can change this recipe"}
	}
	return recipe, nil
}

func (s *recipeService) present(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	authorIDs := make([]uint, 0, len(recipes))
	recipeIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		authorIDs = append(authorIDs, r.AuthorID)
		recipeIDs = append(recipeIDs, r.ID)
	}

	followed, err := s.followers.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	marks, err := s.marks.GetForRecipes(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]models.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		responses = append(responses, recipeResponse(r, followed[r.AuthorID], marks[r.ID], s.images))
	}
	return responses, nil
}

func (s *recipeService) saveImage(ctx context.Context, value string) (string, error) {
	key, err := storage.SaveDataURI(ctx, s.images, recipeImageDir, value)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", models.NewValidationError("image", "must be a base64 encoded image")
		}
		return "", err
	}
	return key, nil
}

func (s *recipeService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete recipe image", "key", key, "error", err)
	}
}

func recipeWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewValidationError("name", "recipe with this name already exists")
	}
	return fmt.Errorf("failed to save recipe: %w", err)
}

// flagParam maps the 0/1 query convention to a filter; other values disable it.
func flagParam(v *int) *bool {
	if v == nil || (*v != 0 && *v != 1) {
		return nil
	}
	b := *v == 1
	return &b
}

func missingIDs(want, found []uint) []uint {
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
