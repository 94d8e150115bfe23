package generative

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"storefront/pkg/store/domain/model"
)

const DefaultImageModel = "gemini-2.5-flash-image"

var (
	ErrMissingAPIKey = errors.New("generative api key is not configured")
	ErrNoImage       = errors.New("model response contained no image")
)

// GeminiGenerator implements model.ImageGenerator on the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, imageModel string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiGenerator{client: client, model: imageModel}, nil
}

func (g *GeminiGenerator) GenerateImage(ctx context.Context, prompt string) (model.GeneratedImage, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return model.GeneratedImage{}, errors.Wrap(err, "generate content")
	}
	return firstImage(resp)
}

func firstImage(resp *genai.GenerateContentResponse) (model.GeneratedImage, error) {
	if resp == nil {
		return model.GeneratedImage{}, ErrNoImage
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return model.GeneratedImage{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
			}
		}
	}
	return model.GeneratedImage{}, ErrNoImage
}
