package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/reposter/repost/pkg/config"
)

// Summarizer condenses text into a short summary plus a bounded hashtag
// set. Provider selection is a configuration-time decision; the only
// shipped variant is the OpenAI chat completions provider.
type Summarizer interface {
	Summarize(ctx context.Context, text, promptTemplate string) (summary string, hashtags []string, err error)
}

// systemPrompt pins the summary register and language
const systemPrompt = "Ты помощник для создания кратких новостных сводок на русском языке."

// OpenAIProvider generates summaries via the OpenAI chat completions API
type OpenAIProvider struct {
	client *openai.Client
	config config.LLMConfig
}

// NewOpenAIProvider creates an OpenAI-backed summarizer
func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Summarize substitutes the text into the prompt template, requests a
// single completion and derives hashtags from the returned summary.
// Provider errors are returned untouched for the caller to turn into
// item-level failure.
func (p *OpenAIProvider) Summarize(ctx context.Context, text, promptTemplate string) (string, []string, error) {
	if text == "" {
		return "", nil, fmt.Errorf("empty input text")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{text}", text)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: float32(p.config.Temperature),
		MaxTokens:   p.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("no response from llm")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", nil, fmt.Errorf("empty summary from llm")
	}

	return summary, ExtractHashtags(summary), nil
}
