package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/ports"
)

// GenerateContentUseCase orchestrates provider fallback: the preferred
// provider gets the first attempt, then the fixed alternate order, one
// HTTP attempt each, first success wins.
type GenerateContentUseCase struct {
	registry ports.ProviderRegistry
}

func NewGenerateContentUseCase(registry ports.ProviderRegistry) *GenerateContentUseCase {
	return &GenerateContentUseCase{registry: registry}
}

// providerPayload is the JSON contract every provider is prompted to
// return for generation requests. Missing fields stay empty; total
// absence is still a usable (empty) result.
type providerPayload struct {
	Summary     string              `json:"summary"`
	Skills      []domain.SkillEntry `json:"skills"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

func (uc *GenerateContentUseCase) GenerateContent(
	ctx context.Context,
	req domain.ProviderRequest,
	preferred domain.ProviderName,
) (*domain.ProviderResponse, error) {
	if !preferred.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate content",
			fmt.Errorf("unknown provider %q", preferred))
	}

	// Unmarshal fills fields before reporting a type error, so each
	// attempt decodes into a fresh value; payload only ever holds data
	// from the provider that succeeded.
	var payload providerPayload
	used, fellBack, err := uc.callWithFallback(ctx, preferred, buildGenerationPrompt(req), func(raw json.RawMessage) error {
		var attempt providerPayload
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return err
		}
		payload = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := &domain.ProviderResponse{
		Summary:     payload.Summary,
		Skills:      payload.Skills,
		Suggestions: payload.Suggestions,
		Provider:    used,
		Fallback:    fellBack,
	}
	if response.Skills == nil {
		response.Skills = []domain.SkillEntry{}
	}
	if response.Suggestions == nil {
		response.Suggestions = []domain.Suggestion{}
	}
	if fellBack {
		response.OriginalProvider = preferred
	}
	return response, nil
}

func (uc *GenerateContentUseCase) GenerateSuggestions(
	ctx context.Context,
	resume domain.CanonicalResume,
	preferred domain.ProviderName,
) ([]domain.Suggestion, error) {
	if !preferred.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "generate suggestions",
			fmt.Errorf("unknown provider %q", preferred))
	}

	type suggestionsPayload struct {
		Suggestions []domain.Suggestion `json:"suggestions"`
	}
	var payload suggestionsPayload
	_, _, err := uc.callWithFallback(ctx, preferred, buildSuggestionsPrompt(resume), func(raw json.RawMessage) error {
		var attempt suggestionsPayload
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return err
		}
		payload = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payload.Suggestions == nil {
		payload.Suggestions = []domain.Suggestion{}
	}
	return payload.Suggestions, nil
}

// callWithFallback tries the preferred provider, then its fixed fallback
// order, returning the first provider whose reply decodes. Provider
// failures are recovered here; only the aggregate failure naming every
// attempted provider escapes.
func (uc *GenerateContentUseCase) callWithFallback(
	ctx context.Context,
	preferred domain.ProviderName,
	prompt string,
	decode func(json.RawMessage) error,
) (domain.ProviderName, bool, error) {
	order := append([]domain.ProviderName{preferred}, preferred.FallbackOrder()...)

	attempted := make([]string, 0, len(order))
	for _, name := range order {
		attempted = append(attempted, string(name))

		provider, ok := uc.registry.Get(name)
		if !ok {
			slog.Warn("provider_not_registered", "provider", name)
			continue
		}

		raw, err := provider.CompleteJSON(ctx, prompt)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", false, err
			}
			slog.Warn("provider_attempt_failed", "provider", name, "error", err)
			continue
		}
		if err := decode(raw); err != nil {
			slog.Warn("provider_attempt_failed", "provider", name,
				"error", domain.WrapError(domain.ErrProviderParse, "decode reply", err))
			continue
		}

		return name, name != preferred, nil
	}

	return "", false, domain.WrapError(domain.ErrAllProvidersFailed, "generate",
		fmt.Errorf("attempted providers: %s", strings.Join(attempted, ", ")))
}
