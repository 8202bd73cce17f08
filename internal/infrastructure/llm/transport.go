package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

const defaultTimeout = 60 * time.Second

type HTTPStatusError struct {
	Provider   string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "provider status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("%s status: %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s status: %s: %s", e.Provider, e.Status, strings.TrimSpace(e.Body))
}

type transport struct {
	httpClient *http.Client
}

func newTransport(client *http.Client) transport {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return transport{httpClient: client}
}

func (t transport) postJSON(ctx context.Context, provider, url string, headers map[string]string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrProviderHTTP, provider+" request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.WrapError(domain.ErrProviderHTTP, provider+" request", &HTTPStatusError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(domain.ErrProviderParse, provider+" response", err)
	}
	return nil
}

// ExtractJSONObject returns the first balanced {...} object found in the
// reply, tolerant of surrounding prose and markdown fences. Brace
// counting skips string literals and escapes.
func ExtractJSONObject(raw string) (json.RawMessage, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := raw[start : i+1]
				if json.Valid([]byte(candidate)) {
					return json.RawMessage(candidate), true
				}
				return nil, false
			}
		}
	}
	return nil, false
}

func parseReplyObject(provider, reply string) (json.RawMessage, error) {
	obj, ok := ExtractJSONObject(reply)
	if !ok {
		return nil, domain.WrapError(domain.ErrProviderParse, provider+" response",
			fmt.Errorf("no JSON object in reply"))
	}
	return obj, nil
}
