package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fridgemap/internal/core/quality"
	"fridgemap/internal/core/vision/cache"
	"fridgemap/internal/infrastructure/config"
	"fridgemap/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Sentinel errors for the extraction failure modes.
var (
	// ErrNoAPIKey means the vision credential was never configured.
	ErrNoAPIKey = errors.New("vision api key is not configured")
	// ErrImageTooSmall means the payload is implausibly small for a photo
	// and was rejected before any network call.
	ErrImageTooSmall = errors.New("image payload too small")
	// ErrAPIError covers transport failures, timeouts and non-2xx replies
	// from the vision service.
	ErrAPIError = errors.New("vision service error")
)

// extractionPrompt instructs the model to return a bare JSON strings array
// of food items in Danish, with an explicit empty-array fallback.
const extractionPrompt = `Du udleder KUN madvarer/ingredienser som rå ord fra køleskabsbilleder. ` +
	`Returnér KUN et JSON-array af strenge på dansk, fx ["mælk","ost"]. ` +
	`Returnér et tomt array [] hvis intet genkendes. Ingen forklaringer.`

// Client talks to an OpenAI-compatible vision endpoint and turns one
// fridge photo into a list of raw ingredient strings.
type Client struct {
	config *config.Config
	client *resty.Client
	cache  *cache.Manager
}

// NewClient creates a vision client. The call timeout bounds every request
// so a hung vision service cannot block an analysis indefinitely.
func NewClient(cfg *config.Config, cacheManager *cache.Manager) *Client {
	client := resty.New().
		SetBaseURL(cfg.Vision.BaseURL).
		SetTimeout(cfg.Vision.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Vision.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
		cache:  cacheManager,
	}
}

// ExtractIngredients sends one image payload to the vision service and
// parses the reply into raw ingredient strings. Malformed model output
// degrades to an empty list, never an error; only credential, payload-size
// and service failures surface as (typed) errors.
func (c *Client) ExtractIngredients(ctx context.Context, payload string) ([]string, error) {
	if c.config.Vision.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	encoded := quality.StripPayloadHeader(payload)
	if len(encoded) < c.config.Vision.MinEncodedLen {
		return nil, fmt.Errorf("%w: %d encoded chars", ErrImageTooSmall, len(encoded))
	}

	key := cache.Key(payload)
	if content, ok := c.cache.Get(ctx, key); ok {
		return parseIngredientList(content), nil
	}

	imageURL := payload
	if !strings.HasPrefix(payload, "data:image/") {
		imageURL = fmt.Sprintf("data:image/jpeg;base64,%s", encoded)
	}

	req := map[string]interface{}{
		"model": c.config.Vision.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": extractionPrompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": imageURL,
						},
					},
				},
			},
		},
		"max_tokens": c.config.Vision.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogVisionCall(time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIError, err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogError("vision service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Vision.Model),
		)
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIError, err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices in reply", ErrAPIError)
	}

	content := result.Choices[0].Message.Content
	if err := c.cache.Set(ctx, key, content); err != nil {
		common.LogDebug("failed to cache vision reply", zap.Error(err))
	}

	return parseIngredientList(content), nil
}

// parseIngredientList defensively decodes the model's free-text reply: the
// first bracketed array substring is decoded, and on any failure the result
// is simply empty. A garbled reply must never fail the request.
func parseIngredientList(content string) []string {
	arr := common.ExtractJSONArray(content)
	if arr == "" {
		return []string{}
	}

	var items []string
	if err := common.ParseJSON(arr, &items); err != nil {
		common.LogDebug("discarding unparseable vision reply", zap.Error(err))
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.GetClient().CloseIdleConnections()
}
