package handlers

import (
	"foodgram-backend/helper"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
	Helper            *helper.HTTPHelper
}

func NewIngredientHandler(ingredientService services.IngredientService, h *helper.HTTPHelper) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, Helper: h}
}

func (h *IngredientHandler) GetIngredients(c *gin.Context) {
	var params models.IngredientListParams
	if err := h.Helper.BindQuery(c, &params); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	ingredients, err := h.ingredientService.GetIngredients(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := parseID(c, "id", "ingredient")
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", ingredient)
}
