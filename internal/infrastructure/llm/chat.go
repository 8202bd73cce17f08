package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

// ChatClient covers the OpenAI-style chat-completions envelope shared by
// Mistral and Perplexity: bearer auth, messages array in, choices array
// out.
type ChatClient struct {
	provider string
	name     domain.ProviderName
	url      string
	model    string
	apiKey   string
	transport
}

func (c *ChatClient) Name() domain.ProviderName { return c.name }

func (c *ChatClient) Configured() bool { return c.apiKey != "" }

func (c *ChatClient) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, domain.WrapError(domain.ErrProviderUnconfigured, c.provider+" complete",
			errors.New("missing api key"))
	}

	request := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.4,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, c.provider, c.url, headers, request, &response); err != nil {
		return nil, err
	}

	var reply string
	if len(response.Choices) > 0 {
		reply = response.Choices[0].Message.Content
	}
	return parseReplyObject(c.provider, reply)
}

const (
	DefaultMistralBaseURL = "https://api.mistral.ai"
	DefaultMistralModel   = "mistral-small-latest"

	DefaultPerplexityBaseURL = "https://api.perplexity.ai"
	DefaultPerplexityModel   = "sonar"
)

func NewMistral(baseURL, model, apiKey string, client *http.Client) *ChatClient {
	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}
	if model == "" {
		model = DefaultMistralModel
	}
	return &ChatClient{
		provider:  "mistral",
		name:      domain.ProviderMistral,
		url:       strings.TrimRight(baseURL, "/") + "/v1/chat/completions",
		model:     model,
		apiKey:    apiKey,
		transport: newTransport(client),
	}
}

func NewPerplexity(baseURL, model, apiKey string, client *http.Client) *ChatClient {
	if baseURL == "" {
		baseURL = DefaultPerplexityBaseURL
	}
	if model == "" {
		model = DefaultPerplexityModel
	}
	return &ChatClient{
		provider:  "perplexity",
		name:      domain.ProviderPerplexity,
		url:       strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:     model,
		apiKey:    apiKey,
		transport: newTransport(client),
	}
}
