package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// teluguKeywords is appended to every search query to bias results toward
// Telugu cooking tutorials.
const teluguKeywords = "recipe in telugu vantalu తెలుగు వంటలు"

// Client searches YouTube for recipe tutorial videos.
type Client struct {
	service           *youtube.Service
	relevanceLanguage string
	regionCode        string
}

// NewClient creates a new YouTube search client.
func NewClient(ctx context.Context, apiKey, relevanceLanguage, regionCode string) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{
		service:           service,
		relevanceLanguage: relevanceLanguage,
		regionCode:        regionCode,
	}, nil
}

// FindVideo issues a single search for a tutorial matching the recipe title
// and region, and returns the first result's watch URL. Zero results yield
// an empty string, not an error; there are no retries.
func (c *Client) FindVideo(ctx context.Context, recipeTitle, region string) (string, error) {
	query := fmt.Sprintf("%s %s %s", recipeTitle, region, teluguKeywords)

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		RelevanceLanguage(c.relevanceLanguage).
		RegionCode(c.regionCode).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube search failed: %w", err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.VideoId == "" {
		return "", nil
	}
	return "https://www.youtube.com/watch?v=" + resp.Items[0].Id.VideoId, nil
}
