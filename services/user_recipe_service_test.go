package services

import (
	"errors"

	"foodgram-backend/models"
)

func (s *ServiceTestSuite) TestFavoriteToggleStateMachine() {
	recipe := s.createRecipe(s.author, "Суп")

	short, err := s.userRecipes.AddFavorite(s.ctx, s.viewer.ID, recipe.ID)
	s.Require().NoError(err)
	s.Equal(recipe.ID, short.ID)
	s.Equal("Суп", short.Name)
	s.Equal(recipe.Image, short.Image)
	s.Equal(5, short.CookingTime)

	_, err = s.userRecipes.AddFavorite(s.ctx, s.viewer.ID, recipe.ID)
	var conflict models.ErrorConflict
	s.Require().True(errors.As(err, &conflict))
	s.Equal("recipe already in favorites", conflict.Message)

	s.Require().NoError(s.userRecipes.RemoveFavorite(s.ctx, s.viewer.ID, recipe.ID))

	err = s.userRecipes.RemoveFavorite(s.ctx, s.viewer.ID, recipe.ID)
	var notFound models.ErrorNotFound
	s.Require().True(errors.As(err, &notFound))
	s.Equal("recipe not in favorites", notFound.Message)

	// One row per (user, recipe) no matter how often it is toggled.
	s.Equal(int64(1), s.count(&models.UserRecipe{}))
}

func (s *ServiceTestSuite) TestRemoveBeforeAddIsNotFound() {
	recipe := s.createRecipe(s.author, "Суп")

	err := s.userRecipes.RemoveFromShoppingCart(s.ctx, s.viewer.ID, recipe.ID)
	var notFound models.ErrorNotFound
	s.Require().True(errors.As(err, &notFound))
	s.Equal("recipe not in shopping cart", notFound.Message)

	// The failed toggle rolls back the lazily created row.
	s.Zero(s.count(&models.UserRecipe{}))
}

func (s *ServiceTestSuite) TestFavoriteAndCartAreIndependent() {
	recipe := s.createRecipe(s.author, "Суп")

	_, err := s.userRecipes.AddFavorite(s.ctx, s.viewer.ID, recipe.ID)
	s.Require().NoError(err)
	_, err = s.userRecipes.AddToShoppingCart(s.ctx, s.viewer.ID, recipe.ID)
	s.Require().NoError(err)

	_, err = s.userRecipes.AddToShoppingCart(s.ctx, s.viewer.ID, recipe.ID)
	var conflict models.ErrorConflict
	s.Require().True(errors.As(err, &conflict))
	s.Equal("recipe already in shopping cart", conflict.Message)

	s.Require().NoError(s.userRecipes.RemoveFavorite(s.ctx, s.viewer.ID, recipe.ID))

	got, err := s.recipes.GetRecipe(s.ctx, s.viewer.ID, recipe.ID)
	s.Require().NoError(err)
	s.False(got.IsFavorited)
	s.True(got.IsInShoppingCart)
}

func (s *ServiceTestSuite) TestToggleUnknownRecipe() {
	_, err := s.userRecipes.AddFavorite(s.ctx, s.viewer.ID, 4242)
	var notFound models.ErrorNotFound
	s.Require().True(errors.As(err, &notFound))
	s.Equal("recipe not found", notFound.Message)
	s.Zero(s.count(&models.UserRecipe{}))
}

func (s *ServiceTestSuite) TestDownloadShoppingCart() {
	first := s.createRecipe(s.author, "Первое")
	second := s.createRecipe(s.author, "Второе")
	s.createRecipe(s.author, "Третье")

	empty, err := s.userRecipes.DownloadShoppingCart(s.ctx, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal("Ингредиенты:\n", string(empty))

	for _, r := range []*models.RecipeResponse{first, second} {
		_, err := s.userRecipes.AddToShoppingCart(s.ctx, s.viewer.ID, r.ID)
		s.Require().NoError(err)
	}

	cart, err := s.userRecipes.DownloadShoppingCart(s.ctx, s.viewer.ID)
	s.Require().NoError(err)
	s.Equal("Ингредиенты:\nКапуста квашеная: 20 (г)\nМасло: 40 (мл)\n", string(cart))
}

func (s *ServiceTestSuite) TestFormatShoppingCartTrimsZeros() {
	out := formatShoppingCart([]models.CartItem{
		{Name: "Мука", Unit: "г", Amount: 250},
		{Name: "Соль", Unit: "г", Amount: 2.5},
		{Name: "Уксус", Unit: "мл", Amount: 0.25},
	})
	s.Equal("Ингредиенты:\nМука: 250 (г)\nСоль: 2.5 (г)\nУксус: 0.25 (мл)\n", string(out))
}
