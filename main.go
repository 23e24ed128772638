package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-backend/cache"
	"foodgram-backend/config"
	"foodgram-backend/handlers"
	"foodgram-backend/helper"
	"foodgram-backend/logger"
	"foodgram-backend/middleware"
	"foodgram-backend/repositories"
	"foodgram-backend/services"
	"foodgram-backend/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Configure(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		logger.Warn("logger configuration incomplete", "error", err)
	}
	if !logger.Enabled(logger.DEBUG) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	images, err := config.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	redisClient, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	var (
		linkCache services.ShortURLCache
		revoker   services.TokenRevoker
	)
	if redisClient != nil {
		defer redisClient.Close()
		store := cache.NewRedisStore(redisClient, 0)
		linkCache, revoker = store, store
	}

	// Initialize repositories
	tx := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db)
	followerRepo := repositories.NewFollowerRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	marksRepo := repositories.NewUserRecipeRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	ingredientRepo := repositories.NewIngredientRepository(db)
	shortURLRepo := repositories.NewShortURLRepository(db)

	// Initialize services
	shortURLService := services.NewShortURLService(shortURLRepo, services.NewShortCodeGenerator(shortURLRepo, cfg.Shortcode), linkCache)
	authService := services.NewAuthService(userRepo, cfg.JWT, revoker, images)
	userService := services.NewUserService(userRepo, followerRepo, recipeRepo, images)
	recipeService := services.NewRecipeService(tx, recipeRepo, ingredientRepo, tagRepo, followerRepo, marksRepo, shortURLService, images)
	userRecipeService := services.NewUserRecipeService(tx, recipeRepo, marksRepo, images)
	tagService := services.NewTagService(tagRepo)
	ingredientService := services.NewIngredientService(ingredientRepo)

	// Initialize handlers
	httpHelper, err := helper.NewHTTPHelper()
	if err != nil {
		return err
	}
	routerOpts := handlers.RouterOptions{AllowedOrigins: cfg.CORSAllowedOrigins}
	if _, local := images.(*storage.LocalStore); local {
		routerOpts.MediaURL = cfg.MediaURL
		routerOpts.MediaRoot = cfg.MediaRoot
	}
	router := handlers.NewRouter(handlers.Handlers{
		Users:       handlers.NewUserHandler(authService, userService, httpHelper),
		Recipes:     handlers.NewRecipeHandler(recipeService, userRecipeService, httpHelper),
		Tags:        handlers.NewTagHandler(tagService, httpHelper),
		Ingredients: handlers.NewIngredientHandler(ingredientService, httpHelper),
		ShortURLs:   handlers.NewShortURLHandler(shortURLService, httpHelper),
	}, middleware.NewAuthenticator(cfg.JWT.Secret, revoker, httpHelper), routerOpts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
	return nil
}
