package llm

import (
	"context"
	"strings"
	"time"

	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

type registration struct {
	name     string
	factory  Factory
	resident TextProvider
}

// Manager owns a priority-ordered list of text providers and performs
// sequential failover. Providers are never raced: the first success wins and
// no lower-priority backend is contacted after it.
type Manager struct {
	log   *logger.Logger
	order []registration
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{log: log.With("service", "ProviderManager")}
}

// Register constructs the resident adapter from process configuration.
// Construction failure (typically a missing credential) is not fatal; the
// provider is skipped and the manager runs with reduced capacity. Priority
// follows registration order.
func (m *Manager) Register(name string, factory Factory) {
	resident, err := factory("")
	if err != nil {
		m.log.Warn("Provider unavailable", "provider", name, "error", err.Error())
		resident = nil
	} else {
		m.log.Info("Provider initialized", "provider", name)
	}
	m.order = append(m.order, registration{name: name, factory: factory, resident: resident})
}

// ProviderNames reports the configured providers in priority order.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.order))
	for _, reg := range m.order {
		if reg.resident != nil {
			names = append(names, reg.name)
		}
	}
	return names
}

// Generate tries each provider in priority order until one succeeds.
// overrides maps provider name to a per-call credential; when present, a
// transient adapter is built for this call only, falling back to the
// resident instance if the override fails to construct.
func (m *Manager) Generate(ctx context.Context, prompt string, overrides map[string]string) (Result, error) {
	tried := 0
	var lastErr error
	for _, reg := range m.order {
		active := reg.resident
		if key := strings.TrimSpace(overrides[reg.name]); key != "" {
			alt, err := reg.factory(key)
			if err != nil {
				m.log.Warn("Override credential rejected, keeping resident provider",
					"provider", reg.name, "error", err.Error())
			} else {
				active = alt
			}
		}
		if active == nil {
			continue
		}
		tried++
		start := time.Now()
		text, err := active.Generate(ctx, prompt)
		if err == nil {
			observability.Current().ObserveProviderRequest(reg.name, "ok", time.Since(start))
			if tried > 1 {
				observability.Current().IncProviderFailover()
			}
			return Result{Text: text, Provider: reg.name}, nil
		}
		observability.Current().ObserveProviderRequest(reg.name, "error", time.Since(start))
		lastErr = err
		m.log.Warn("Provider failed, falling back", "provider", reg.name, "error", err.Error())
	}
	if tried == 0 {
		return Result{}, &NoProvidersAvailableError{}
	}
	return Result{}, &AllProvidersFailedError{Last: lastErr}
}
