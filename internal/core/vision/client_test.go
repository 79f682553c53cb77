package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fridgemap/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visionConfig(baseURL string) *config.Config {
	return &config.Config{
		Vision: config.VisionConfig{
			APIKey:        "test-key",
			Model:         "gpt-4.1-mini",
			BaseURL:       baseURL,
			MaxTokens:     260,
			Timeout:       2 * time.Second,
			MinEncodedLen: 64,
		},
	}
}

// chatReply wraps content in the chat-completions response envelope.
func chatReply(content string) string {
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

func testPayload() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 256))
}

func TestExtractIngredients(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, chatReply(`["mælk","ost","smør"]`))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	items, err := client.ExtractIngredients(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"mælk", "ost", "smør"}, items)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4.1-mini", gotBody["model"])
}

func TestExtractIngredientsProseWrappedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("Her er hvad jeg fandt:\n```json\n[\"æg\", \"kaffe\"]\n```"))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	items, err := client.ExtractIngredients(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"æg", "kaffe"}, items)
}

func TestExtractIngredientsGarbledReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("jeg kan desværre ikke se nogen madvarer"))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	// A reply without a parseable array degrades to an empty list, not an
	// error.
	items, err := client.ExtractIngredients(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractIngredientsEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("[]"))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	items, err := client.ExtractIngredients(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractIngredientsBlankEntriesFiltered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(`["mælk", "", "  ", "ost"]`))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	items, err := client.ExtractIngredients(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, []string{"mælk", "ost"}, items)
}

func TestExtractIngredientsNoAPIKey(t *testing.T) {
	cfg := visionConfig("http://unused")
	cfg.Vision.APIKey = ""
	client := NewClient(cfg, nil)
	defer client.Close()

	_, err := client.ExtractIngredients(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestExtractIngredientsTooSmall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	_, err := client.ExtractIngredients(context.Background(), "dGlueQ==")
	assert.ErrorIs(t, err, ErrImageTooSmall)
	assert.False(t, called, "undersized payloads must never reach the service")
}

func TestExtractIngredientsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	_, err := client.ExtractIngredients(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrAPIError)
}

func TestExtractIngredientsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	_, err := client.ExtractIngredients(context.Background(), testPayload())
	assert.ErrorIs(t, err, ErrAPIError)
}

func TestExtractIngredientsDataURIForwarded(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, part := range body.Messages[0].Content {
			if part.Type == "image_url" {
				gotURL = part.ImageURL.URL
			}
		}
		fmt.Fprint(w, chatReply("[]"))
	}))
	defer server.Close()

	client := NewClient(visionConfig(server.URL), nil)
	defer client.Close()

	t.Run("existing data URI passes through", func(t *testing.T) {
		payload := "data:image/png;base64," + testPayload()
		_, err := client.ExtractIngredients(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, payload, gotURL)
	})

	t.Run("bare base64 gets a jpeg header", func(t *testing.T) {
		payload := testPayload()
		_, err := client.ExtractIngredients(context.Background(), payload)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(gotURL, "data:image/jpeg;base64,"))
		assert.True(t, strings.HasSuffix(gotURL, payload))
	})
}
