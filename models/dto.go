package models

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=32"`
	Slug string `json:"slug" validate:"required,max=32,slug"`
}

type RecipeIngredientInput struct {
	ID     uint    `json:"id" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0,lte=999.99"`
}

type CreateRecipeRequest struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" validate:"required,min=1,dive,required"`
	Image       string                  `json:"image" validate:"required"`
	Name        string                  `json:"name" validate:"required,max=256"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"required,gte=1"`
}

// UpdateRecipeRequest replaces ingredients and tags in full; the other fields are optional.
type UpdateRecipeRequest struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" validate:"required,min=1,dive,required"`
	Image       *string                 `json:"image" validate:"omitempty,min=1"`
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=256"`
	Text        *string                 `json:"text" validate:"omitempty,min=1"`
	CookingTime *int                    `json:"cooking_time" validate:"omitempty,gte=1"`
}

type PageParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize applies defaults and bounds, returning the SQL offset.
func (p *PageParams) Normalize(defaultLimit int) int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return (p.Page - 1) * p.Limit
}

type RecipeListParams struct {
	PageParams
	Author           uint     `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      *int     `form:"is_favorited"`
	IsInShoppingCart *int     `form:"is_in_shopping_cart"`
}

type SubscriptionListParams struct {
	PageParams
	RecipesLimit *int `form:"recipes_limit"`
}

type IngredientListParams struct {
	Name string `form:"name"`
}

type AuthResponse struct {
	AuthToken string `json:"auth_token"`
}

type UserResponse struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredientResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Amount          float64 `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

func NewIngredientResponse(ingredient Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.Unit.Name,
	}
}

// CartItem is one aggregated line of the shopping list.
type CartItem struct {
	Name   string
	Unit   string
	Amount float64
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID uint
	Role   UserRole
}

func (a Actor) CanModify(ownerID uint) bool {
	return a.Role == RoleAdmin || a.UserID == ownerID
}
