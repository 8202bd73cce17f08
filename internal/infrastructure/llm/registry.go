package llm

import (
	"context"
	"encoding/json"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/ports"
	"github.com/codespaze/resume-builder/internal/infrastructure/resilience"
)

// Registry holds the configured provider clients keyed by name.
type Registry struct {
	providers map[domain.ProviderName]ports.Provider
}

func NewRegistry(providers ...ports.Provider) *Registry {
	m := make(map[domain.ProviderName]ports.Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name domain.ProviderName) (ports.Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// ResilientProvider wraps a provider with the circuit-breaker executor.
// Retries stay disabled: the fallback orchestrator owns recovery, and
// each provider gets exactly one HTTP attempt per request. An open
// breaker surfaces as a provider failure and triggers fallback.
type ResilientProvider struct {
	inner    ports.Provider
	executor *resilience.Executor
}

func NewResilientProvider(inner ports.Provider, executor *resilience.Executor) *ResilientProvider {
	return &ResilientProvider{inner: inner, executor: executor}
}

func (p *ResilientProvider) Name() domain.ProviderName { return p.inner.Name() }

func (p *ResilientProvider) Configured() bool { return p.inner.Configured() }

func (p *ResilientProvider) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	var out json.RawMessage
	err := p.executor.Execute(ctx, "provider_"+string(p.inner.Name()), func(callCtx context.Context) error {
		raw, callErr := p.inner.CompleteJSON(callCtx, prompt)
		if callErr != nil {
			return callErr
		}
		out = raw
		return nil
	}, classifyProviderError)
	if err != nil {
		return nil, err
	}
	return out, nil
}
