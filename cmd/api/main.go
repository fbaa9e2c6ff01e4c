package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rasoi/internal/api"
	"rasoi/internal/config"
	"rasoi/internal/platform/gemini"
	"rasoi/internal/platform/localllm"
	"rasoi/internal/platform/youtube"
	"rasoi/internal/recipe"
)

func main() {
	ctx := context.Background()
	log := setupLogger()

	// Secrets come from the environment; .env is a convenience for local runs.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.VisionModel, cfg.Gemini.TextModel)
	if err != nil {
		log.Fatalf("error creating gemini client: %v", err)
	}

	youtubeClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.RelevanceLanguage, cfg.YouTube.RegionCode)
	if err != nil {
		log.Fatalf("error creating youtube client: %v", err)
	}

	dbStore, err := recipe.NewPostgresStore(cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatalf("error creating postgres store: %v", err)
	}

	var localClient api.IngredientIdentifier
	if cfg.Local.URL != "" {
		localClient = localllm.NewClient(cfg.Local.URL, cfg.Local.Model)
	}

	handler := api.NewHandler(geminiClient, localClient, geminiClient, youtubeClient, dbStore, log, cfg.Server.ModelTimeout, cfg.Server.StorageTimeout)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/home", handler.Home)
	r.GET("/options", handler.Options)
	r.POST("/ingredients", handler.IdentifyIngredients)
	if localClient != nil {
		r.POST("/v2/ingredients", handler.IdentifyIngredientsLocal)
	}
	r.POST("/recipes/generate", handler.GenerateRecipe)
	r.POST("/recipes", handler.SaveRecipe)
	r.GET("/recipes", handler.ListRecipes)
	r.GET("/recipes/:id", handler.GetRecipe)
	r.DELETE("/recipes/:id", handler.DeleteRecipe)

	log.Infof("recipe generator listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
