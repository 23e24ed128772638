package services

import (
	"foodgram-backend/models"
	"foodgram-backend/storage"
)

func userResponse(user models.User, subscribed bool, images storage.ImageStore) models.UserResponse {
	res := models.UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
	if user.Avatar != "" {
		url := images.URL(user.Avatar)
		res.Avatar = &url
	}
	return res
}

func shortRecipeResponse(recipe models.Recipe, images storage.ImageStore) models.RecipeShortResponse {
	return models.RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       images.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

// recipeResponse expects Author, RecipeIngredients.Ingredient.Unit and RecipeTags.Tag preloaded.
func recipeResponse(recipe models.Recipe, subscribed bool, mark models.UserRecipe, images storage.ImageStore) models.RecipeResponse {
	tags := make([]models.Tag, 0, len(recipe.RecipeTags))
	for _, rt := range recipe.RecipeTags {
		tags = append(tags, rt.Tag)
	}

	ingredients := make([]models.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients))
	for _, ri := range recipe.RecipeIngredients {
		ingredients = append(ingredients, models.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.Unit.Name,
			Amount:          ri.Amount,
		})
	}

	return models.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           userResponse(recipe.Author, subscribed, images),
		Ingredients:      ingredients,
		IsFavorited:      mark.IsFavorite,
		IsInShoppingCart: mark.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            images.URL(recipe.Image),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}
