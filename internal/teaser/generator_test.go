package teaser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignitelabs/sparkd/internal/logger"
)

// fake TextGenerator with a func field
type fakeTextGenerator struct {
	generateFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	lastSystem string
	lastPrompt string
	calls      int
}

func (f *fakeTextGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	if f.generateFunc != nil {
		return f.generateFunc(ctx, systemPrompt, userPrompt)
	}
	return "Get ready. Something big is coming.", nil
}

func TestGenerator_Generate_WithDescription(t *testing.T) {
	fake := &fakeTextGenerator{}
	gen := NewGenerator(fake, logger.Get())

	text, err := gen.Generate(context.Background(), GenerationRequest{
		SparkTitle:   "Midnight Signal",
		CategoryName: "thriller",
		Description:  "a story told in static",
		Style:        "dramatic",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	assert.Contains(t, fake.lastSystem, "marketing copywriter")
	assert.Contains(t, fake.lastPrompt, `"Midnight Signal"`)
	assert.Contains(t, fake.lastPrompt, "a story told in static")
	assert.Contains(t, fake.lastPrompt, `"thriller"`)
	assert.Contains(t, fake.lastPrompt, "The style should be dramatic.")
}

func TestGenerator_Generate_WithoutDescription(t *testing.T) {
	fake := &fakeTextGenerator{}
	gen := NewGenerator(fake, logger.Get())

	_, err := gen.Generate(context.Background(), GenerationRequest{
		SparkTitle:          "Midnight Signal",
		CategoryName:        "thriller",
		CategoryDescription: "edge of the seat",
	})
	require.NoError(t, err)

	assert.Contains(t, fake.lastPrompt, "No specific description has been provided.")
	assert.Contains(t, fake.lastPrompt, `"thriller"`)
	assert.Contains(t, fake.lastPrompt, "edge of the seat")
	assert.Contains(t, fake.lastPrompt, "fits the category")
}

func TestGenerator_Generate_GeneratorError(t *testing.T) {
	fake := &fakeTextGenerator{
		generateFunc: func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	gen := NewGenerator(fake, logger.Get())

	_, err := gen.Generate(context.Background(), GenerationRequest{SparkTitle: "X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerator_Generate_EmptyOutput(t *testing.T) {
	fake := &fakeTextGenerator{
		generateFunc: func(context.Context, string, string) (string, error) {
			return "   \n", nil
		},
	}
	gen := NewGenerator(fake, logger.Get())

	_, err := gen.Generate(context.Background(), GenerationRequest{SparkTitle: "X"})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestBuildPrompt_AlwaysEndsWithHook(t *testing.T) {
	prompts := []string{
		buildPrompt(GenerationRequest{SparkTitle: "A"}),
		buildPrompt(GenerationRequest{SparkTitle: "B", Description: "d", Style: "humorous"}),
		buildPrompt(GenerationRequest{SparkTitle: "C", CategoryName: "poetry"}),
	}
	for _, p := range prompts {
		if !strings.HasSuffix(p, "leave the audience wanting more.") {
			t.Errorf("prompt missing closing hook: %q", p)
		}
	}
}
