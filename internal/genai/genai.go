// Package genai provides the AI responder with explicit backend selection.
//
// At most one of two interchangeable backends is active at a time, resolved
// once at startup from configuration presence (OpenAI wins over Gemini).
// Both live backends speak the OpenAI chat completion protocol; Gemini is
// reached through its OpenAI-compatible endpoint.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Backend identifies the active responder implementation.
type Backend string

const (
	// BackendOpenAI answers through the OpenAI chat completion API.
	BackendOpenAI Backend = "openai"
	// BackendGemini answers through Gemini's OpenAI-compatible endpoint.
	BackendGemini Backend = "gemini"
	// BackendNone answers by echoing the input (no API key configured).
	BackendNone Backend = "echo"
)

// Backend defaults.
const (
	openAIModel   = string(openai.ChatModelGPT4oMini)
	geminiModel   = "gemini-1.5-flash"
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// systemPrompt frames every live-backend completion.
const systemPrompt = "你是友善、清楚的中文助理，回覆要重點清楚、必要時給步驟與範例。"

// Config is the backend selection resolved once at startup and injected
// into the router.
type Config struct {
	Backend Backend
	APIKey  string
	Model   string
}

// ResolveConfig picks the backend from key presence: first configured wins,
// OpenAI before Gemini, echo when neither is set.
func ResolveConfig(openAIKey, geminiKey string) Config {
	switch {
	case openAIKey != "":
		return Config{Backend: BackendOpenAI, APIKey: openAIKey, Model: openAIModel}
	case geminiKey != "":
		return Config{Backend: BackendGemini, APIKey: geminiKey, Model: geminiModel}
	default:
		return Config{Backend: BackendNone}
	}
}

// completionService is the minimal chat completion surface, split out so
// tests can substitute the API client.
type completionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client is the AI responder consumed by the command router.
type Client struct {
	cfg  Config
	chat completionService
}

// NewClient builds a responder for the resolved configuration. With
// BackendNone the client answers by echoing and never makes a network call.
func NewClient(cfg Config) *Client {
	c := &Client{cfg: cfg}
	switch cfg.Backend {
	case BackendOpenAI:
		cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
		c.chat = &cli.Chat.Completions
	case BackendGemini:
		cli := openai.NewClient(option.WithAPIKey(cfg.APIKey), option.WithBaseURL(geminiBaseURL))
		c.chat = &cli.Chat.Completions
	}
	slog.Info("genai client initialized", "backend", string(cfg.Backend), "model", cfg.Model)
	return c
}

// Engine reports the active backend name for the /engine command.
func (c *Client) Engine() string {
	return string(c.cfg.Backend)
}

// Ask answers the user's text. With no backend configured it echoes the
// input; live backends return provider errors unwrapped so the caller can
// apply its own fallback.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	if c.cfg.Backend == BackendNone || c.chat == nil {
		return "你說：" + text, nil
	}

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Temperature: openai.Float(0.5),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", c.cfg.Backend, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.cfg.Backend)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
