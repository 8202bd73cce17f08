package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

func TestGeminiParsesCandidateReply(t *testing.T) {
	var gotPath, gotKey, gotRawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotRawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Here you go:\n{\"summary\":\"ok\"}"}]}}]}`))
	}))
	defer server.Close()

	client := NewGemini(server.URL, "gemini-1.5-flash", "secret", server.Client())
	raw, err := client.CompleteJSON(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("CompleteJSON() error = %v", err)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if strings.Contains(gotRawQuery, "secret") {
		t.Fatalf("api key must not appear in the url: %q", gotRawQuery)
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if parsed.Summary != "ok" {
		t.Fatalf("summary = %q", parsed.Summary)
	}
}

func TestMistralSendsBearerAuth(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"mistral says\"}"}}]}`))
	}))
	defer server.Close()

	client := NewMistral(server.URL, "", "mk-123", server.Client())
	raw, err := client.CompleteJSON(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("CompleteJSON() error = %v", err)
	}
	if gotAuth != "Bearer mk-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(string(raw), "mistral says") {
		t.Fatalf("raw = %s", raw)
	}
}

func TestPerplexityFencedReplyParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := "```json\n{\"summary\":\"fenced\"}\n```"
		payload := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": body}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewPerplexity(server.URL, "", "pk-1", server.Client())
	raw, err := client.CompleteJSON(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("CompleteJSON() error = %v", err)
	}
	if !strings.Contains(string(raw), "fenced") {
		t.Fatalf("raw = %s", raw)
	}
}

func TestUnconfiguredProviderSkipsNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewGemini(server.URL, "", "", server.Client())
	_, err := client.CompleteJSON(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrProviderUnconfigured) {
		t.Fatalf("expected ErrProviderUnconfigured, got %v", err)
	}
	if called {
		t.Fatalf("expected no network call")
	}
}

func TestHTTPErrorCarriesStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewMistral(server.URL, "", "mk-123", server.Client())
	_, err := client.CompleteJSON(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrProviderHTTP) {
		t.Fatalf("expected ErrProviderHTTP, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestReplyWithoutJSONObjectIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"sorry, I cannot help"}}]}`))
	}))
	defer server.Close()

	client := NewPerplexity(server.URL, "", "pk-1", server.Client())
	_, err := client.CompleteJSON(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrProviderParse) {
		t.Fatalf("expected ErrProviderParse, got %v", err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"surrounded by prose", `Sure! {"a":1} hope this helps`, `{"a":1}`, true},
		{"markdown fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"braces in strings", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"escaped quote in string", `{"a":"say \"}\""}`, `{"a":"say \"}\""}`, true},
		{"no object", "plain text", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if tc.ok && string(got) != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
