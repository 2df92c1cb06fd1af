package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kozaktomas/photo-organizer/internal/imaging"
	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

const geminiModel = "gemini-2.5-flash"

// GeminiClassifier classifies photos with a Gemini vision model.
type GeminiClassifier struct {
	client *genai.Client
}

func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClassifier{client: client}, nil
}

func (c *GeminiClassifier) Name() string {
	return geminiModel
}

func (c *GeminiClassifier) ClassifyImage(ctx context.Context, imageData []byte) (organizer.Category, error) {
	resizedData, err := imaging.ResizeImage(imageData, 800)
	if err != nil {
		return "", fmt.Errorf("failed to resize image: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: classifyPrompt + "\n\nClassify this photo."},
				{InlineData: &genai.Blob{Data: resizedData, MIMEType: "image/jpeg"}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := c.client.Models.GenerateContent(ctx, geminiModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("empty response from Gemini")
	}

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse classification response: %w", err)
	}

	return MapLabelToCategory(parsed.Category), nil
}
