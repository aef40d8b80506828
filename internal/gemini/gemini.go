package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Outcome is the result of one generation attempt. The prompt is always
// retained, even on failure, for diagnostics.
type Outcome struct {
	Success   bool
	Data      []byte
	MimeType  string
	ModelUsed string
	Prompt    string
	Reason    string
}

// Generator is the external image-generation capability consumed by the
// orchestrator. Implementations issue exactly one call per invocation.
type Generator interface {
	Generate(ctx context.Context, prompt, qualityTierID, aspectRatioID string) Outcome
}

// tierConfig pairs a target model with its output resolution class.
type tierConfig struct {
	Model string
	Size  string
}

// fallbackTier is the documented default for unknown quality tier ids: the
// lowest-resolution configured tier, so bad input gets the cheapest call.
const fallbackTier = "1k"

var tierTable = map[string]tierConfig{
	"1k": {Model: "gemini-2.5-flash-image", Size: "1K"},
	"2k": {Model: "gemini-2.5-flash-image", Size: "2K"},
	"4k": {Model: "gemini-3-pro-image-preview", Size: "4K"},
}

var allowedAspects = map[string]bool{
	"1:1":  true,
	"4:3":  true,
	"16:9": true,
}

const genericFailure = "Generation API failed or returned no image."

// Client generates room images through the Gemini API.
type Client struct {
	client           *genai.Client
	systemPromptPath string
	limiter          *rate.Limiter
}

// New builds a Client. The system instruction is read from
// {dataDir}/system_prompt.txt on every call rather than cached, so edits take
// effect without a restart.
func New(ctx context.Context, dataDir string) (*Client, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client:           client,
		systemPromptPath: filepath.Join(dataDir, "system_prompt.txt"),
		limiter:          rate.NewLimiter(rate.Limit(1), 2),
	}, nil
}

// resolveTier maps a quality tier id to its model and size, falling back to
// the lowest tier for unknown ids.
func resolveTier(qualityTierID string) tierConfig {
	if tier, ok := tierTable[qualityTierID]; ok {
		return tier
	}
	slog.Warn("Unknown image quality tier, using lowest", "tier", qualityTierID, "fallback", fallbackTier)
	return tierTable[fallbackTier]
}

// resolveAspect validates an aspect ratio id against the allow-set, falling
// back to 1:1.
func resolveAspect(aspectRatioID string) string {
	if allowedAspects[aspectRatioID] {
		return aspectRatioID
	}
	slog.Warn("Unsupported aspect ratio, falling back to square", "aspect_ratio", aspectRatioID)
	return "1:1"
}

// Generate issues a single generation call. Transport errors, empty payloads
// and a missing system instruction all surface as a failed Outcome; nothing
// here is fatal to the process.
func (c *Client) Generate(ctx context.Context, prompt, qualityTierID, aspectRatioID string) Outcome {
	tier := resolveTier(qualityTierID)
	aspect := resolveAspect(aspectRatioID)

	// The system instruction changes generation semantics; proceeding without
	// it would silently produce different images.
	systemInstruction, err := os.ReadFile(c.systemPromptPath)
	if err != nil {
		slog.Error("Failed to read system prompt", "path", c.systemPromptPath, "err", err)
		return Outcome{Prompt: prompt, Reason: "System instruction unavailable."}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		slog.Error("Generation cancelled while rate limited", "err", err)
		return Outcome{Prompt: prompt, Reason: genericFailure}
	}

	slog.Info("Generating room image",
		"model", tier.Model,
		"size", tier.Size,
		"aspect_ratio", aspect)
	slog.Debug("Generation prompt", "prompt", prompt)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: string(systemInstruction)}},
		},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspect,
			ImageSize:   tier.Size,
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, tier.Model, genai.Text(prompt), config)
	if err != nil {
		slog.Error("Generation call failed", "model", tier.Model, "err", err)
		return Outcome{Prompt: prompt, Reason: genericFailure}
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			return Outcome{
				Success:   true,
				Data:      part.InlineData.Data,
				MimeType:  mime,
				ModelUsed: tier.Model,
				Prompt:    prompt,
			}
		}
	}

	slog.Error("No inline image data in generation response", "model", tier.Model)
	return Outcome{Prompt: prompt, Reason: genericFailure}
}
