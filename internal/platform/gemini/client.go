package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"rasoi/internal/recipe"
)

// identifyPrompt is the fixed instruction sent with every ingredient photo.
const identifyPrompt = `Analyze this image and identify Indian ingredients including:
1. All visible food items, spices, and ingredients
2. Approximate quantities if visible
3. Condition (e.g., fresh, dried, powdered)
4. Any visible packaging or storage containers

Pay special attention to Indian spices, lentils, rice varieties, and fresh ingredients.
Format as a comma-separated list with details in parentheses.
Example: haldi powder (2 tbsp), fresh curry leaves (1 bunch), basmati rice (1 cup)

Add any common Indian ingredients that might pair well with the visible ingredients.`

// Client talks to the Gemini API. The vision model reads ingredient photos,
// the text model writes recipes.
type Client struct {
	visionModel *genai.GenerativeModel
	textModel   *genai.GenerativeModel
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, visionModel, textModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Client{
		visionModel: client.GenerativeModel(visionModel),
		textModel:   client.GenerativeModel(textModel),
	}, nil
}

// IdentifyIngredients sends the photo and the fixed instruction prompt to
// the vision model and returns the comma-separated answer as a list.
// imageFormat is the bare format name ("jpeg" or "png").
func (c *Client) IdentifyIngredients(ctx context.Context, imageData []byte, imageFormat string) ([]string, error) {
	prompt := []genai.Part{
		genai.ImageData(imageFormat, imageData),
		genai.Text(identifyPrompt),
	}

	resp, err := c.visionModel.GenerateContent(ctx, prompt...)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return recipe.SplitIngredients(text), nil
}

// GenerateRecipe sends the composed prompt to the text model and returns
// its raw markdown response.
func (c *Client) GenerateRecipe(ctx context.Context, params recipe.GenerationParams) (string, error) {
	resp, err := c.textModel.GenerateContent(ctx, genai.Text(params.BuildPrompt()))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	return responseText(resp)
}

// responseText unwraps the first text part of a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}
