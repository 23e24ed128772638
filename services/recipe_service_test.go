package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"foodgram-backend/models"
)

func (s *ServiceTestSuite) TestCreateRecipeWritesAssociations() {
	res := s.createRecipe(s.author, "Нечто съедобное (это не точно)")

	s.Equal(int64(2), s.count(&models.RecipeIngredient{}))
	s.Equal(int64(2), s.count(&models.RecipeTag{}))

	s.Require().Len(res.Ingredients, 2)
	s.Equal(models.RecipeIngredientResponse{ID: s.cabbage.ID, Name: "Капуста квашеная", MeasurementUnit: "г", Amount: 10}, res.Ingredients[0])
	s.Equal(20.0, res.Ingredients[1].Amount)
	s.Require().Len(res.Tags, 2)
	s.Equal("breakfast", res.Tags[0].Slug)
	s.Equal(5, res.CookingTime)
	s.Equal("author", res.Author.Username)
	s.False(res.IsFavorited)
	s.True(strings.HasPrefix(res.Image, "http://testserver/media/recipes/images/"))

	key := strings.TrimPrefix(res.Image, "http://testserver/media/")
	_, err := os.Stat(filepath.Join(s.images.Root, filepath.FromSlash(key)))
	s.NoError(err)
}

func (s *ServiceTestSuite) TestCreateRecipeUnknownIngredientRollsBack() {
	_, err := s.recipes.CreateRecipe(s.ctx, s.author.ID, models.CreateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.cabbage.ID, Amount: 10}, {ID: 9999, Amount: 1}},
		Tags:        []uint{s.breakfast.ID, 8888},
		Image:       testImage,
		Name:        "Ghost",
		Text:        "nothing",
		CookingTime: 5,
	})

	var verr models.ErrorValidation
	s.Require().True(errors.As(err, &verr))
	s.Equal([]string{"ingredient 9999 does not exist"}, verr.Fields["ingredients"])
	s.Equal([]string{"tag 8888 does not exist"}, verr.Fields["tags"])

	s.Zero(s.count(&models.Recipe{}))
	s.Zero(s.count(&models.RecipeIngredient{}))
	s.Zero(s.count(&models.RecipeTag{}))

	// The uploaded image is discarded with the transaction.
	entries, _ := os.ReadDir(filepath.Join(s.images.Root, "recipes", "images"))
	s.Empty(entries)
}

func (s *ServiceTestSuite) TestCreateRecipeRejectsBadPayload() {
	_, err := s.recipes.CreateRecipe(s.ctx, s.author.ID, models.CreateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 1}, {ID: s.oil.ID, Amount: 2}},
		Tags:        []uint{},
		Image:       testImage,
		Name:        "Twice oil",
		Text:        "nothing",
		CookingTime: 5,
	})
	var verr models.ErrorValidation
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields["ingredients"], "ingredient "+itoa(s.oil.ID)+" is listed more than once")
	s.Contains(verr.Fields["tags"], "at least one tag is required")

	_, err = s.recipes.CreateRecipe(s.ctx, s.author.ID, models.CreateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 1}},
		Tags:        []uint{s.lunch.ID},
		Image:       "not-an-image",
		Name:        "No image",
		Text:        "nothing",
		CookingTime: 5,
	})
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "image")
	s.Zero(s.count(&models.Recipe{}))
}

func (s *ServiceTestSuite) TestCreateRecipeDuplicateName() {
	s.createRecipe(s.author, "Борщ")

	_, err := s.recipes.CreateRecipe(s.ctx, s.viewer.ID, models.CreateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 1}},
		Tags:        []uint{s.lunch.ID},
		Image:       testImage,
		Name:        "Борщ",
		Text:        "again",
		CookingTime: 5,
	})
	var verr models.ErrorValidation
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "name")
	s.Equal(int64(1), s.count(&models.Recipe{}))
}

func (s *ServiceTestSuite) TestUpdateRecipeReplacesAssociations() {
	created := s.createRecipe(s.author, "Суп")
	name := "Суп 2"

	res, err := s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.author.ID, Role: models.RoleUser}, created.ID, models.UpdateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 7.5}},
		Tags:        []uint{s.lunch.ID},
		Name:        &name,
	})
	s.Require().NoError(err)
	s.Equal("Суп 2", res.Name)
	s.Require().Len(res.Ingredients, 1)
	s.Equal(7.5, res.Ingredients[0].Amount)
	s.Require().Len(res.Tags, 1)
	s.Equal("lunch", res.Tags[0].Slug)
	s.Equal(created.Image, res.Image)

	s.Equal(int64(1), s.count(&models.RecipeIngredient{}))
	s.Equal(int64(1), s.count(&models.RecipeTag{}))
}

func (s *ServiceTestSuite) TestUpdateRecipeWithEmptyListsKeepsOldAssociations() {
	created := s.createRecipe(s.author, "Суп")
	name := "Renamed"

	_, err := s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.author.ID}, created.ID, models.UpdateRecipeRequest{
		Ingredients: nil,
		Tags:        []uint{s.lunch.ID},
		Name:        &name,
	})
	var verr models.ErrorValidation
	s.Require().True(errors.As(err, &verr))
	s.Contains(verr.Fields, "ingredients")

	got, err := s.recipes.GetRecipe(s.ctx, 0, created.ID)
	s.Require().NoError(err)
	s.Equal("Суп", got.Name)
	s.Len(got.Ingredients, 2)
	s.Len(got.Tags, 2)
}

func (s *ServiceTestSuite) TestUpdateRecipePermissions() {
	created := s.createRecipe(s.author, "Суп")
	req := models.UpdateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 1}},
		Tags:        []uint{s.lunch.ID},
	}

	_, err := s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.viewer.ID, Role: models.RoleUser}, created.ID, req)
	var forbidden models.ErrorForbidden
	s.True(errors.As(err, &forbidden))

	_, err = s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.viewer.ID, Role: models.RoleAdmin}, created.ID, req)
	s.NoError(err)

	_, err = s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.author.ID}, 4242, req)
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))
}

func (s *ServiceTestSuite) TestUpdateRecipeSwapsImage() {
	created := s.createRecipe(s.author, "Суп")
	oldKey := strings.TrimPrefix(created.Image, "http://testserver/media/")
	image := testImage

	res, err := s.recipes.UpdateRecipe(s.ctx, models.Actor{UserID: s.author.ID}, created.ID, models.UpdateRecipeRequest{
		Ingredients: []models.RecipeIngredientInput{{ID: s.oil.ID, Amount: 1}},
		Tags:        []uint{s.lunch.ID},
		Image:       &image,
	})
	s.Require().NoError(err)
	s.NotEqual(created.Image, res.Image)

	_, err = os.Stat(filepath.Join(s.images.Root, filepath.FromSlash(oldKey)))
	s.True(os.IsNotExist(err))
}

func (s *ServiceTestSuite) TestDeleteRecipeCascades() {
	created := s.createRecipe(s.author, "Суп")
	_, err := s.userRecipes.AddFavorite(s.ctx, s.viewer.ID, created.ID)
	s.Require().NoError(err)

	err = s.recipes.DeleteRecipe(s.ctx, models.Actor{UserID: s.viewer.ID}, created.ID)
	var forbidden models.ErrorForbidden
	s.True(errors.As(err, &forbidden))

	s.Require().NoError(s.recipes.DeleteRecipe(s.ctx, models.Actor{UserID: s.author.ID}, created.ID))
	s.Zero(s.count(&models.Recipe{}))
	s.Zero(s.count(&models.RecipeIngredient{}))
	s.Zero(s.count(&models.RecipeTag{}))
	s.Zero(s.count(&models.UserRecipe{}))

	_, err = s.recipes.GetRecipe(s.ctx, 0, created.ID)
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))
}

func (s *ServiceTestSuite) TestGetRecipesAppliesViewerState() {
	first := s.createRecipe(s.author, "Первое")
	s.createRecipe(s.viewer, "Второе")

	_, err := s.userRecipes.AddToShoppingCart(s.ctx, s.viewer.ID, first.ID)
	s.Require().NoError(err)
	_, err = s.users.Subscribe(s.ctx, s.viewer.ID, s.author.ID, nil)
	s.Require().NoError(err)

	one := 1
	params := &models.RecipeListParams{IsInShoppingCart: &one}
	list, total, err := s.recipes.GetRecipes(s.ctx, s.viewer.ID, params)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(list, 1)
	s.True(list[0].IsInShoppingCart)
	s.False(list[0].IsFavorited)
	s.True(list[0].Author.IsSubscribed)
	s.Equal(6, params.Limit)

	// Anonymous callers see everything, with no per-user state.
	list, total, err = s.recipes.GetRecipes(s.ctx, 0, &models.RecipeListParams{IsInShoppingCart: &one})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	for _, r := range list {
		s.False(r.IsInShoppingCart)
		s.False(r.Author.IsSubscribed)
	}

	list, _, err = s.recipes.GetRecipes(s.ctx, 0, &models.RecipeListParams{Author: s.viewer.ID})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Второе", list[0].Name)
}

func (s *ServiceTestSuite) TestGetShortLinkIsStable() {
	created := s.createRecipe(s.author, "Суп")

	link, err := s.recipes.GetShortLink(s.ctx, created.ID, "foodgram.test", false)
	s.Require().NoError(err)
	s.Regexp(`^http://foodgram\.test/s/[a-zA-Z0-9]{10}$`, link)

	again, err := s.recipes.GetShortLink(s.ctx, created.ID, "foodgram.test", false)
	s.Require().NoError(err)
	s.Equal(link, again)

	code := link[strings.LastIndex(link, "/")+1:]
	target, err := s.shortURLs.Resolve(s.ctx, strings.ToUpper(code))
	s.Require().NoError(err)
	s.Equal("http://foodgram.test/recipes/"+itoa(created.ID), target)

	_, err = s.recipes.GetShortLink(s.ctx, 4242, "foodgram.test", false)
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))
}
