package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

// Gemini calls the Google Generative Language REST API. Auth rides in
// the x-goog-api-key header so the key never appears in URLs carried
// by transport errors or logs.
type Gemini struct {
	baseURL string
	model   string
	apiKey  string
	transport
}

func NewGemini(baseURL, model, apiKey string, client *http.Client) *Gemini {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		apiKey:    apiKey,
		transport: newTransport(client),
	}
}

func (g *Gemini) Name() domain.ProviderName { return domain.ProviderGemini }

func (g *Gemini) Configured() bool { return g.apiKey != "" }

func (g *Gemini) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if !g.Configured() {
		return nil, domain.WrapError(domain.ErrProviderUnconfigured, "gemini complete",
			errors.New("missing api key"))
	}

	request := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.4,
			"maxOutputTokens": 2048,
		},
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	headers := map[string]string{"x-goog-api-key": g.apiKey}
	if err := g.postJSON(ctx, "gemini", url, headers, request, &response); err != nil {
		return nil, err
	}

	var reply strings.Builder
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			reply.WriteString(part.Text)
		}
		break
	}
	return parseReplyObject("gemini", reply.String())
}
