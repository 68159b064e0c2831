package cartkit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

var (
	initMu        sync.Mutex
	defaultWidget *Widget
)

// Init is the compatibility shim for hosts that expect a process-wide
// widget. The first call behaves like New and retains the handle; calling it
// again logs a warning, ignores the new configuration and returns the
// existing widget. Prefer New, which makes double initialization impossible.
func Init(ctx context.Context, cfg Config, deps Deps) (*Widget, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if defaultWidget != nil {
		logger := deps.Logger
		if logger == nil {
			logger = defaultWidget.log
		}
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("cartkit.already_initialized")
		return defaultWidget, nil
	}

	w, err := New(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	defaultWidget = w
	return w, nil
}

// Default returns the widget retained by Init, or nil before Init succeeds.
func Default() *Widget {
	initMu.Lock()
	defer initMu.Unlock()
	return defaultWidget
}

// resetDefault clears the retained widget. Tests only.
func resetDefault() {
	initMu.Lock()
	defaultWidget = nil
	initMu.Unlock()
}
