package handlers

import (
	"context"
	"net/http"

	"foodgram-backend/helper"
	"foodgram-backend/middleware"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

const shoppingCartFilename = "shopping_cart.txt"

type RecipeHandler struct {
	recipeService     services.RecipeService
	userRecipeService services.UserRecipeService
	Helper            *helper.HTTPHelper
}

func NewRecipeHandler(recipeService services.RecipeService, userRecipeService services.UserRecipeService, h *helper.HTTPHelper) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, userRecipeService: userRecipeService, Helper: h}
}

func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	var params models.RecipeListParams
	if err := h.Helper.BindQuery(c, &params); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	recipes, total, err := h.recipeService.GetRecipes(c.Request.Context(), middleware.UserID(c), &params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendPage(c, "Success", recipes, params.Page, params.Limit, total)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req models.CreateRecipeRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Recipe created successfully", recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	var req models.UpdateRecipeRequest
	if err := h.Helper.Bind(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Recipe updated successfully", recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.mark(c, "Added to favorites", h.userRecipeService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.unmark(c, h.userRecipeService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.mark(c, "Added to shopping cart", h.userRecipeService.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.unmark(c, h.userRecipeService.RemoveFromShoppingCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	body, err := h.userRecipeService.DownloadShoppingCart(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingCartFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

func (h *RecipeHandler) GetShortLink(c *gin.Context) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	link, err := h.recipeService.GetShortLink(c.Request.Context(), id, c.Request.Host, helper.IsSecure(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", models.ShortLinkResponse{ShortLink: link})
}

type markFunc func(ctx context.Context, userID, recipeID uint) (*models.RecipeShortResponse, error)

func (h *RecipeHandler) mark(c *gin.Context, message string, fn markFunc) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	recipe, err := fn(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, message, recipe)
}

func (h *RecipeHandler) unmark(c *gin.Context, fn func(ctx context.Context, userID, recipeID uint) error) {
	id, err := parseID(c, "id", "recipe")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	if err := fn(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendNoContent(c)
}
