package usecase

import (
	"context"
	"sync"

	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"go.uber.org/zap"
)

const optedOutValue = "true"

// ConsentGate is the persisted opt-out switch. It only affects future
// capture and delivery; nothing already buffered or stored is purged.
type ConsentGate struct {
	kv ports.KeyValueStorePort

	mu      sync.RWMutex
	enabled bool
}

// NewConsentGate loads the persisted choice. Missing or unreadable state
// means enabled.
func NewConsentGate(ctx context.Context, kv ports.KeyValueStorePort) *ConsentGate {
	g := &ConsentGate{kv: kv, enabled: true}

	v, found, err := kv.Get(ctx, ports.KeyOptedOut)
	if err != nil {
		logger.L().Warn("consent state unreadable, defaulting to enabled", zap.Error(err))
		return g
	}
	if found && v == optedOutValue {
		g.enabled = false
	}
	return g
}

// Reload picks up a choice persisted by another process sharing the store.
// On a read error the current state is kept.
func (g *ConsentGate) Reload(ctx context.Context) {
	v, found, err := g.kv.Get(ctx, ports.KeyOptedOut)
	if err != nil {
		logger.L().Warn("consent state unreadable, keeping current", zap.Error(err))
		return
	}
	enabled := !(found && v == optedOutValue)

	g.mu.Lock()
	changed := g.enabled != enabled
	g.enabled = enabled
	g.mu.Unlock()

	if changed {
		logger.L().Info("consent state reloaded", zap.Bool("enabled", enabled))
	}
}

func (g *ConsentGate) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

func (g *ConsentGate) Enable(ctx context.Context) {
	g.mu.Lock()
	g.enabled = true
	g.mu.Unlock()

	if err := g.kv.Delete(ctx, ports.KeyOptedOut); err != nil {
		logger.L().Warn("consent opt-in not persisted", zap.Error(err))
	}
}

func (g *ConsentGate) Disable(ctx context.Context) {
	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()

	if err := g.kv.Set(ctx, ports.KeyOptedOut, optedOutValue); err != nil {
		logger.L().Warn("consent opt-out not persisted", zap.Error(err))
	}
}
