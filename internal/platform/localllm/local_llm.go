package localllm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"rasoi/internal/recipe"
)

const identifyPrompt = "Analyze this image and identify Indian ingredients: all visible food items, spices, and ingredients with approximate quantities and condition (fresh, dried, powdered). Pay special attention to Indian spices, lentils, rice varieties, and fresh ingredients. Respond with only a comma-separated list, details in parentheses, e.g. haldi powder (2 tbsp), fresh curry leaves (1 bunch), basmati rice (1 cup)."

// Client is an alternate ingredient identifier backed by a local model
// served over an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	model      string
}

// NewClient creates a new client for the local LLM.
func NewClient(apiURL, model string) *Client {
	return &Client{
		httpClient: &http.Client{},
		apiURL:     apiURL,
		model:      model,
	}
}

// Request represents the request body for the local LLM.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Message represents a message in the request.
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Content represents the content of a message.
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents the image URL in the content.
type ImageURL struct {
	URL string `json:"url"`
}

// Response represents the response from the local LLM.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage represents a message in the response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// generateContent sends a text+image request to the local LLM and returns
// the first choice's content.
func (c *Client) generateContent(ctx context.Context, text, mimeType string, imageData []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)
	reqBody := Request{
		Model: c.model,
		Messages: []Message{
			{
				Role: "user",
				Content: []Content{
					{Type: "text", Text: text},
					{Type: "image_url", ImageURL: &ImageURL{URL: "data:" + mimeType + ";base64," + encoded}},
				},
			},
		},
		Temperature: 1,
		MaxTokens:   1024,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("no content found in response")
	}
	return llmResp.Choices[0].Message.Content, nil
}

// IdentifyIngredients asks the local model for a comma-separated ingredient
// list and splits it the same way the Gemini identifier does.
func (c *Client) IdentifyIngredients(ctx context.Context, imageData []byte, imageFormat string) ([]string, error) {
	responseText, err := c.generateContent(ctx, identifyPrompt, "image/"+imageFormat, imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return recipe.SplitIngredients(responseText), nil
}
