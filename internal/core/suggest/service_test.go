package suggest

import (
	"context"
	"encoding/base64"
	"errors"
	"math/rand"
	"testing"

	"fridgemap/internal/core/vision"
	"fridgemap/internal/infrastructure/config"
	"fridgemap/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) ExtractIngredients(ctx context.Context, payload string) ([]string, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Vision: config.VisionConfig{
			APIKey:        "test-key",
			MinEncodedLen: 10,
		},
		Quality: config.QualityConfig{
			MinScore:    40,
			MaxSelected: 3,
			MaxImages:   8,
		},
	}
}

// goodPayload encodes a buffer that clears the quality gate; seed varies
// the bytes so distinct payloads stay distinguishable in mocks.
func goodPayload(seed int64) string {
	buf := make([]byte, 120*1024)
	rng := rand.New(rand.NewSource(seed))
	rng.Read(buf)
	return base64.StdEncoding.EncodeToString(buf)
}

// badPayload encodes a flat buffer the quality gate rejects.
func badPayload() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 10*1024))
}

func TestAnalyzeManualIngredients(t *testing.T) {
	extractor := new(mockExtractor)
	svc := NewService(testConfig(), extractor)

	result := svc.Analyze(context.Background(), Request{
		Ingredients: []string{"æg", "ost", "brød"},
		People:      "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "ingredients", result.Mode)
	assert.Empty(t, result.ErrorCode)
	assert.Equal(t, []string{"æg", "ost", "brød"}, result.Detected)
	assert.Equal(t, "1 person", result.PeopleLabel)

	require.Contains(t, result.Recipes, TierSimple)
	assert.Equal(t, "Ostemad", result.Recipes[TierSimple].Title)
	assert.Equal(t, []string{"smør", "kartofler", "løg", "salt", "peber"}, result.ShoppingList)
	assert.NotEmpty(t, result.Suggestions)

	extractor.AssertNotCalled(t, "ExtractIngredients")
}

func TestAnalyzeManualNormalizesInput(t *testing.T) {
	svc := NewService(testConfig(), new(mockExtractor))

	result := svc.Analyze(context.Background(), Request{
		Ingredients: []string{"Eggs", "osten", "egg"},
		People:      "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, []string{"æg", "ost"}, result.Detected)
}

func TestAnalyzeManualNonFood(t *testing.T) {
	svc := NewService(testConfig(), new(mockExtractor))

	result := svc.Analyze(context.Background(), Request{
		Ingredients: []string{"æg", "telefon"},
		People:      "1",
	})

	assert.True(t, result.OK)
	assert.Empty(t, result.ErrorCode)
	assert.Equal(t, []string{"telefon"}, result.NonFood)
	// Matching waits until the caller has pruned the non-food words.
	assert.Empty(t, result.Detected)
	assert.Empty(t, result.Recipes)
	assert.Empty(t, result.ShoppingList)
}

func TestAnalyzeManualNothingUsable(t *testing.T) {
	svc := NewService(testConfig(), new(mockExtractor))

	result := svc.Analyze(context.Background(), Request{
		Ingredients: []string{"", "   "},
		People:      "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, common.ErrCodeNoIngredientsDetected, result.ErrorCode)
}

func TestAnalyzeEmptyRequest(t *testing.T) {
	svc := NewService(testConfig(), new(mockExtractor))

	result := svc.Analyze(context.Background(), Request{People: "1"})

	assert.True(t, result.OK)
	assert.Equal(t, "empty", result.Mode)
	assert.Equal(t, common.ErrCodeNoImages, result.ErrorCode)
	assert.Equal(t, []string{}, result.Detected)
	assert.Equal(t, []string{}, result.ShoppingList)
}

func TestAnalyzeImagesWithoutAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Vision.APIKey = ""
	extractor := new(mockExtractor)
	svc := NewService(cfg, extractor)

	result := svc.Analyze(context.Background(), Request{
		Images: []string{goodPayload(1)},
		People: "1",
	})

	assert.False(t, result.OK)
	assert.Equal(t, common.ErrCodeNoAPIKey, result.ErrorCode)
	extractor.AssertNotCalled(t, "ExtractIngredients")
}

func TestAnalyzeImagesNoneUsable(t *testing.T) {
	extractor := new(mockExtractor)
	svc := NewService(testConfig(), extractor)

	result := svc.Analyze(context.Background(), Request{
		Images: []string{badPayload(), badPayload()},
		People: "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "images", result.Mode)
	assert.Equal(t, common.ErrCodeNoUsableImages, result.ErrorCode)
	// The vision service is never contacted when nothing passes the gate.
	extractor.AssertNotCalled(t, "ExtractIngredients")
}

func TestAnalyzeImagesSuccess(t *testing.T) {
	payload := goodPayload(1)
	extractor := new(mockExtractor)
	extractor.On("ExtractIngredients", mock.Anything, payload).
		Return([]string{"mælk", "ost"}, nil)

	svc := NewService(testConfig(), extractor)
	result := svc.Analyze(context.Background(), Request{
		Images: []string{payload},
		People: "2",
	})

	assert.True(t, result.OK)
	assert.Equal(t, "images", result.Mode)
	assert.Empty(t, result.ErrorCode)
	assert.Equal(t, []string{"mælk", "ost"}, result.Detected)
	assert.Equal(t, "2 personer", result.PeopleLabel)
	assert.Equal(t, []string{"brød", "smør", "pasta", "ost"}, result.ShoppingList)
	extractor.AssertExpectations(t)
}

func TestAnalyzeImagesPartialFailure(t *testing.T) {
	good := goodPayload(1)
	flaky := goodPayload(2)
	extractor := new(mockExtractor)
	extractor.On("ExtractIngredients", mock.Anything, good).
		Return([]string{"æg"}, nil)
	extractor.On("ExtractIngredients", mock.Anything, flaky).
		Return(nil, vision.ErrAPIError)

	svc := NewService(testConfig(), extractor)
	result := svc.Analyze(context.Background(), Request{
		Images: []string{good, flaky},
		People: "1",
	})

	// One bad image never fails the whole analysis.
	assert.True(t, result.OK)
	assert.Empty(t, result.ErrorCode)
	assert.Equal(t, []string{"æg"}, result.Detected)
	extractor.AssertExpectations(t)
}

func TestAnalyzeImagesAllTooSmall(t *testing.T) {
	payload := goodPayload(1)
	extractor := new(mockExtractor)
	extractor.On("ExtractIngredients", mock.Anything, payload).
		Return(nil, vision.ErrImageTooSmall)

	svc := NewService(testConfig(), extractor)
	result := svc.Analyze(context.Background(), Request{
		Images: []string{payload},
		People: "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, common.ErrCodeImageTooSmall, result.ErrorCode)
}

func TestAnalyzeImagesAllFailed(t *testing.T) {
	payload := goodPayload(1)
	extractor := new(mockExtractor)
	extractor.On("ExtractIngredients", mock.Anything, payload).
		Return(nil, errors.New("boom"))

	svc := NewService(testConfig(), extractor)
	result := svc.Analyze(context.Background(), Request{
		Images: []string{payload},
		People: "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, common.ErrCodeAPIError, result.ErrorCode)
	assert.Equal(t, []string{}, result.Detected)
}

func TestAnalyzeImagesNothingDetected(t *testing.T) {
	payload := goodPayload(1)
	extractor := new(mockExtractor)
	extractor.On("ExtractIngredients", mock.Anything, payload).
		Return([]string{"telefon"}, nil)

	svc := NewService(testConfig(), extractor)
	result := svc.Analyze(context.Background(), Request{
		Images: []string{payload},
		People: "1",
	})

	assert.True(t, result.OK)
	assert.Equal(t, common.ErrCodeNoIngredientsDetected, result.ErrorCode)
	assert.Equal(t, []string{"telefon"}, result.NonFood)
}
