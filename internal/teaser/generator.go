package teaser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignitelabs/sparkd/internal/logger"
)

// TextGenerator defines the external content-generation capability.
// internal/llm.Client satisfies this; tests use a deterministic fake.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerationRequest carries the context needed to write one teaser.
// It is ephemeral and never persisted.
type GenerationRequest struct {
	SparkTitle          string
	SparkDescription    string
	CategoryName        string
	CategoryDescription string
	Description         string // caller-supplied override, may be empty
	Style               string // tone hint, may be empty
}

// DefaultStyle is used when the caller supplies no tone hint.
const DefaultStyle = "exciting"

const systemInstruction = `You are a highly creative and persuasive marketing copywriter specialized in crafting short, engaging teasers for creative works.
Your goal is to excite the audience and build anticipation for a spark, which is a creative work by a user.
- Focus on the key themes and emotions within the spark.
- If a synopsis or description is provided, use it to craft the teaser.
- If no synopsis is provided, create a teaser based on the spark's genre, category, and tags, making it relevant and engaging.
- When a style or tone is specified, follow it closely (e.g., dramatic, humorous, inspirational).
- Use short, punchy sentences, and leave the audience wanting more.`

// Generator builds prompts from spark context and calls the text generator.
type Generator struct {
	gen TextGenerator
	log *logger.Logger
}

// NewGenerator creates a new content generator.
func NewGenerator(gen TextGenerator, log *logger.Logger) *Generator {
	return &Generator{gen: gen, log: log}
}

// buildPrompt assembles the user prompt for one teaser. When no description
// is available the generator is told to lean on the category instead.
func buildPrompt(req GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a teaser for a spark titled %q", req.SparkTitle)

	if req.Description != "" {
		fmt.Fprintf(&b, ", where the creator has provided the following description: %q.", req.Description)
		if req.CategoryName != "" {
			fmt.Fprintf(&b, " It is tagged as %q category.", req.CategoryName)
		}
	} else {
		b.WriteString(" No specific description has been provided.")
		if req.CategoryName != "" {
			fmt.Fprintf(&b, " The spark belongs to the %q category", req.CategoryName)
			if req.CategoryDescription != "" {
				fmt.Fprintf(&b, " (%s)", req.CategoryDescription)
			}
			b.WriteString(".")
		}
	}

	if req.Style != "" {
		fmt.Fprintf(&b, " The style should be %s.", req.Style)
	} else {
		b.WriteString(" No specific style has been provided, so create something that fits the category.")
	}

	b.WriteString(" Make it engaging and leave the audience wanting more.")

	return b.String()
}

// Generate produces the text for one teaser.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	prompt := buildPrompt(req)

	text, err := g.gen.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: generator returned empty text", ErrGenerationFailed)
	}

	g.log.Debug().
		Str("spark_title", req.SparkTitle).
		Int("content_len", len(text)).
		Msg("generated teaser content")

	return text, nil
}
