// Package observability provides hooks for instrumenting the build
// pipeline without tying the core packages to a metrics backend.
//
// Hooks are registered once at startup by main; the libraries only emit
// events through the no-op defaults unless something was registered. This
// keeps the resolver and stores free of observability imports while still
// letting a deployment wire OpenTelemetry, Prometheus or plain logging
// around every stage.
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the build pipeline stages.
type BuildHooks interface {
	// OnStageStart fires when a pipeline stage begins. Stage names are
	// describe, validate, resolve, plan and apply.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete fires when a stage finishes, with its duration and
	// error if any.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnPlanComputed reports the operation counts of a computed plan.
	OnPlanComputed(ctx context.Context, planID string, create, move, unchanged, remove int)
}

// StoreHooks receives events from layout store operations.
type StoreHooks interface {
	// OnLoad records a layout read and how many transforms it returned.
	OnLoad(ctx context.Context, backend string, objects int, err error)

	// OnSave records a layout write.
	OnSave(ctx context.Context, backend string, objects int, err error)
}

// NoopBuildHooks ignores all build events.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnStageStart(context.Context, string)                          {}
func (NoopBuildHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopBuildHooks) OnPlanComputed(context.Context, string, int, int, int, int)    {}

// NoopStoreHooks ignores all store events.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, int, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, int, error) {}

var (
	buildHooks BuildHooks = NoopBuildHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetBuildHooks registers build hooks. Call once at startup.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// SetStoreHooks registers store hooks. Call once at startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores the no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
	storeHooks = NoopStoreHooks{}
}
