package handlers

import (
	"net/http"
	"slices"
	"time"

	"foodgram-backend/middleware"
	"foodgram-backend/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users       *UserHandler
	Recipes     *RecipeHandler
	Tags        *TagHandler
	Ingredients *IngredientHandler
	ShortURLs   *ShortURLHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	// MediaRoot is served under MediaURL when images are stored on disk.
	MediaURL  string
	MediaRoot string
}

func NewRouter(h Handlers, auth *middleware.Authenticator, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(opts.AllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if slices.Contains(opts.AllowedOrigins, "*") {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
		} else {
			corsCfg.AllowOrigins = opts.AllowedOrigins
		}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if opts.MediaRoot != "" && opts.MediaURL != "" {
		router.Static(opts.MediaURL, opts.MediaRoot)
	}

	router.GET("/s/:shortcode", h.ShortURLs.Redirect)

	api := router.Group("/api")
	{
		tokens := api.Group("/auth/token")
		{
			tokens.POST("/login/", h.Users.Login)
			tokens.POST("/logout/", auth.Required(), h.Users.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("/", h.Users.Register)
			users.GET("/", auth.Optional(), h.Users.GetUsers)
			users.GET("/me/", auth.Required(), h.Users.Me)
			users.PUT("/me/avatar/", auth.Required(), h.Users.UpdateAvatar)
			users.DELETE("/me/avatar/", auth.Required(), h.Users.DeleteAvatar)
			users.POST("/set_password/", auth.Required(), h.Users.SetPassword)
			users.GET("/subscriptions/", auth.Required(), h.Users.GetSubscriptions)
			users.GET("/:id/", auth.Optional(), h.Users.GetUser)
			users.POST("/:id/subscribe/", auth.Required(), h.Users.Subscribe)
			users.DELETE("/:id/subscribe/", auth.Required(), h.Users.Unsubscribe)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("/", auth.Optional(), h.Recipes.GetRecipes)
			recipes.POST("/", auth.Required(), h.Recipes.CreateRecipe)
			recipes.GET("/download_shopping_cart/", auth.Required(), h.Recipes.DownloadShoppingCart)
			recipes.GET("/:id/", auth.Optional(), h.Recipes.GetRecipe)
			recipes.PATCH("/:id/", auth.Required(), h.Recipes.UpdateRecipe)
			recipes.DELETE("/:id/", auth.Required(), h.Recipes.DeleteRecipe)
			recipes.GET("/:id/get-link/", h.Recipes.GetShortLink)
			recipes.POST("/:id/favorite/", auth.Required(), h.Recipes.AddFavorite)
			recipes.DELETE("/:id/favorite/", auth.Required(), h.Recipes.RemoveFavorite)
			recipes.POST("/:id/shopping_cart/", auth.Required(), h.Recipes.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart/", auth.Required(), h.Recipes.RemoveFromShoppingCart)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/", h.Tags.GetTags)
			tags.POST("/", auth.Required(), auth.RequireRole(models.RoleAdmin), h.Tags.CreateTag)
			tags.GET("/:id/", h.Tags.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/", h.Ingredients.GetIngredients)
			ingredients.GET("/:id/", h.Ingredients.GetIngredient)
		}
	}

	return router
}
