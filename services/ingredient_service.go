package services

import (
	"context"
	"errors"
	"strings"

	"foodgram-backend/models"
	"foodgram-backend/repositories"

	"gorm.io/gorm"
)

type IngredientService interface {
	GetIngredients(ctx context.Context, params models.IngredientListParams) ([]models.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uint) (*models.IngredientResponse, error)
}

type ingredientService struct {
	ingredientRepo repositories.IngredientRepository
}

func NewIngredientService(ingredientRepo repositories.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) GetIngredients(ctx context.Context, params models.IngredientListParams) ([]models.IngredientResponse, error) {
	ingredients, err := s.ingredientRepo.List(ctx, strings.TrimSpace(params.Name))
	if err != nil {
		return nil, err
	}

	res := make([]models.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, models.NewIngredientResponse(ingredient))
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (*models.IngredientResponse, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "ingredient not found"}
		}
		return nil, err
	}
	res := models.NewIngredientResponse(*ingredient)
	return &res, nil
}
