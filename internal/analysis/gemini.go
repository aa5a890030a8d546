package analysis

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultPrompt is used when a request does not carry its own prompt.
const DefaultPrompt = `Analyze the input image step by step and provide the most comprehensive extraction possible:

1. Raw text extraction: every visible text fragment, printed or handwritten, preserving structure.
2. Object and scene recognition: all objects, people, animals and their positions and interactions; environment type.
3. People and identity clues: clothing, age group, emotions, gestures, roles.
4. Event or situation context: infer the event type and any cultural or geographical context.
5. Brand, logo and product detection.
6. Colors, style and aesthetic: dominant colors, artistic style, lighting, composition.
7. Cultural cross-reference: identify famous photos, memes or artworks it resembles.
8. Metadata and hidden clues: medium, timestamps, UI elements, signs of editing.
9. Contextual reasoning: possible purposes of the image and useful index tags.
10. Rich human-friendly summary: describe the image as if explaining it to a blind person.

Be factual but also provide possible interpretations.`

// GeminiAnalyzer talks to the Gemini API. The underlying client is created
// lazily so a missing credential surfaces as a clear configuration error on
// the first analysis attempt instead of crashing startup.
type GeminiAnalyzer struct {
	apiKey string
	model  string
	log    *zap.Logger

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiAnalyzer(apiKey, model string, log *zap.Logger) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey: apiKey,
		model:  model,
		log:    log,
	}
}

func (g *GeminiAnalyzer) init(ctx context.Context) error {
	g.once.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.initErr = fmt.Errorf("create genai client: %w", err)
			return
		}
		g.client = client
	})
	return g.initErr
}

// Describe sends the image and prompt to Gemini and returns the description
// text. Single attempt; SDK default timeouts.
func (g *GeminiAnalyzer) Describe(ctx context.Context, imageData []byte, mimeType, prompt string) Result {
	if g.apiKey == "" {
		return Result{Err: &APIError{
			Kind:    KindConfiguration,
			Message: "GEMINI_API_KEY is not set; image analysis is unavailable",
		}}
	}

	if err := g.init(ctx); err != nil {
		return Result{Err: &APIError{Kind: KindConfiguration, Message: err.Error()}}
	}

	if prompt == "" {
		prompt = DefaultPrompt
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		nil,
	)
	if err != nil {
		g.log.Error("Gemini request failed", zap.Error(err))
		return Result{Err: &APIError{Kind: KindAPI, Message: err.Error()}}
	}

	text := resp.Text()
	if text == "" {
		return Result{Err: &APIError{Kind: KindResponse, Message: "empty gemini response"}}
	}

	g.log.Info("Gemini response received",
		zap.String("model", g.model),
		zap.Int("chars", len(text)))

	return Result{Description: text}
}
