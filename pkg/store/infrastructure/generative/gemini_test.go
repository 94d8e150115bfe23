package generative

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFirstImage(t *testing.T) {
	t.Run("Skips text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your bottle"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
			}},
		}}}

		image, err := firstImage(resp)
		require.NoError(t, err)
		assert.Equal(t, "image/png", image.MIMEType)
		assert.Equal(t, []byte{1, 2, 3}, image.Data)
	})

	t.Run("No image", func(t *testing.T) {
		_, err := firstImage(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, ErrNoImage)
		_, err = firstImage(nil)
		assert.ErrorIs(t, err, ErrNoImage)
	})
}
