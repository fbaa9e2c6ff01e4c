package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"rasoi/internal/recipe"
)

// maxImageWidth is the upper bound for photos forwarded to a vision model.
// Larger uploads are downscaled before the request is built.
const maxImageWidth = 1024

// IngredientIdentifier turns an ingredient photo into a list of ingredient
// descriptions.
type IngredientIdentifier interface {
	IdentifyIngredients(ctx context.Context, imageData []byte, imageFormat string) ([]string, error)
}

// RecipeGenerator produces recipe markdown from generation parameters.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, params recipe.GenerationParams) (string, error)
}

// VideoFinder locates a tutorial video for a recipe title. An empty URL
// means no video was found.
type VideoFinder interface {
	FindVideo(ctx context.Context, recipeTitle, region string) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Identifier      IngredientIdentifier
	LocalIdentifier IngredientIdentifier
	Generator       RecipeGenerator
	VideoFinder     VideoFinder
	Store           recipe.Store
	Log             *logrus.Logger

	ModelTimeout   time.Duration
	StorageTimeout time.Duration
}

// NewHandler creates a new Handler. localIdentifier may be nil; the /v2
// ingredient route is only wired when it is present.
func NewHandler(identifier IngredientIdentifier, localIdentifier IngredientIdentifier, generator RecipeGenerator, videoFinder VideoFinder, store recipe.Store, log *logrus.Logger, modelTimeout, storageTimeout time.Duration) *Handler {
	return &Handler{
		Identifier:      identifier,
		LocalIdentifier: localIdentifier,
		Generator:       generator,
		VideoFinder:     videoFinder,
		Store:           store,
		Log:             log,
		ModelTimeout:    modelTimeout,
		StorageTimeout:  storageTimeout,
	}
}

// Home returns the welcome payload for the landing page, with the saved
// recipe count when the store is reachable.
func (h *Handler) Home(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.StorageTimeout)
	defer cancel()

	payload := gin.H{
		"message": "Welcome to the Indian Recipe Generator! Upload a photo of your ingredients to get started.",
	}
	count, err := h.Store.Count(ctx)
	if err != nil {
		// The landing page renders without the count rather than failing.
		h.Log.WithError(err).Warn("failed to count saved recipes")
	} else {
		payload["saved_recipes"] = count
	}
	c.JSON(http.StatusOK, payload)
}

// Options returns the fixed selector values for the generate page.
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions":    recipe.Regions,
		"dish_types": recipe.DishTypes,
		"spice_level": gin.H{
			"min": 1, "max": 5, "default": 3,
		},
		"max_minutes": gin.H{
			"min": 5, "max": 120, "step": 5, "default": 30,
		},
	})
}

// IdentifyIngredients handles an ingredient photo upload via Gemini.
func (h *Handler) IdentifyIngredients(c *gin.Context) {
	h.identifyWith(c, h.Identifier)
}

// IdentifyIngredientsLocal handles an ingredient photo upload via the
// local model.
func (h *Handler) IdentifyIngredientsLocal(c *gin.Context) {
	h.identifyWith(c, h.LocalIdentifier)
}

// identifyWith reads and validates the uploaded photo, downscales it, and
// asks the identifier for ingredients. Identification failures are "safe
// empty": the response carries an empty list and the error message instead
// of a failure status, so the page degrades instead of breaking.
func (h *Handler) identifyWith(c *gin.Context, identifier IngredientIdentifier) {
	file, err := c.FormFile("file")
	if err != nil {
		h.Log.WithError(err).Error("failed to read uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("get form err: %s", err.Error())})
		return
	}

	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only JPEG, JPG, and PNG images are allowed."})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("open file err: %s", err.Error())})
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("read image err: %s", err.Error())})
		return
	}

	imageData, imageFormat, err := prepareImage(imageData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("decode image err: %s", err.Error())})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.ModelTimeout)
	defer cancel()

	ingredients, err := identifier.IdentifyIngredients(ctx, imageData, imageFormat)
	if err != nil {
		h.Log.WithError(err).Error("ingredient identification failed")
		c.JSON(http.StatusOK, gin.H{
			"ingredients": []string{},
			"error":       fmt.Sprintf("Error identifying ingredients: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// GenerateRecipe runs one generation round: prompt the text model, extract
// titles, and look up a tutorial video. Nothing is persisted; saving is a
// separate explicit action.
func (h *Handler) GenerateRecipe(c *gin.Context) {
	var params recipe.GenerationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %s", err.Error())})
		return
	}

	if len(params.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a photo of your ingredients first"})
		return
	}
	if err := params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.ModelTimeout)
	defer cancel()

	instructions, err := h.Generator.GenerateRecipe(ctx, params)
	if err != nil {
		h.Log.WithError(err).Error("recipe generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error generating content: %s", err.Error())})
		return
	}

	name, nameTelugu := recipe.ExtractTitles(instructions)

	// One search, no retries. A failed or empty search degrades to a recipe
	// without a video section.
	videoLink, err := h.VideoFinder.FindVideo(ctx, name, params.Region)
	if err != nil {
		h.Log.WithError(err).Error("video search failed")
		videoLink = ""
	}

	result := recipe.Recipe{
		Name:         name,
		NameTelugu:   nameTelugu,
		Region:       params.Region,
		Ingredients:  strings.Join(params.Ingredients, ", "),
		Instructions: instructions,
	}
	if videoLink != "" {
		result.VideoLink.String = videoLink
		result.VideoLink.Valid = true
	}

	c.JSON(http.StatusOK, result)
}

// SaveRecipe persists a generated recipe.
func (h *Handler) SaveRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %s", err.Error())})
		return
	}

	if r.Name == "" || r.Region == "" || r.Ingredients == "" || r.Instructions == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, region, ingredients, and instructions are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.StorageTimeout)
	defer cancel()

	id, err := h.Store.Insert(ctx, &r)
	if err != nil {
		h.Log.WithError(err).Error("failed to save recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error saving recipe: %s", err.Error())})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Recipe saved successfully!"})
}

// recipeSummary is the saved-recipes list row.
type recipeSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	NameTelugu  string    `json:"name_telugu"`
	Region      string    `json:"region"`
	Ingredients string    `json:"ingredients"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListRecipes returns all saved recipes, newest first.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.StorageTimeout)
	defer cancel()

	recipes, err := h.Store.ListAll(ctx)
	if err != nil {
		h.Log.WithError(err).Error("failed to list recipes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("database error: %s", err.Error())})
		return
	}

	summaries := make([]recipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, recipeSummary{
			ID:          r.ID,
			Name:        r.Name,
			NameTelugu:  r.NameTelugu,
			Region:      r.Region,
			Ingredients: r.Ingredients,
			CreatedAt:   r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// GetRecipe returns the detail view of one saved recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.StorageTimeout)
	defer cancel()

	r, err := h.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found!"})
			return
		}
		h.Log.WithError(err).Error("failed to get recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("database error: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, r)
}

// DeleteRecipe removes a saved recipe. Deleting an id that was never saved
// still succeeds.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.StorageTimeout)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.Log.WithError(err).Error("failed to delete recipe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("database error: %s", err.Error())})
		return
	}

	c.Status(http.StatusNoContent)
}

// prepareImage decodes an uploaded photo, downscales anything wider than
// maxImageWidth, and re-encodes as JPEG for the vision request.
func prepareImage(imageData []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), "jpeg", nil
}
