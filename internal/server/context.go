package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/config"
	"github.com/teemow/calaudit/internal/instrumentation"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	cfg             *config.Config
	calendarClients map[string]*calendar.Client // Maps account name to Calendar client
	instrumentation *instrumentation.Provider
	mu              sync.RWMutex
	shutdown        bool
}

// NewServerContext creates a new server context. Calendar clients are
// lazily initialized when first needed, so a missing token does not
// prevent the server from starting.
func NewServerContext(ctx context.Context, cfg *config.Config, provider *instrumentation.Provider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		cfg:             cfg,
		calendarClients: make(map[string]*calendar.Client),
		instrumentation: provider,
	}

	if calendar.HasToken() {
		client, err := calendar.NewClient(shutdownCtx)
		if err != nil {
			slog.Warn("failed to create Calendar client for default account", "error", err)
		} else {
			sc.calendarClients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Metrics returns the metrics recorder, which is nil-safe when
// instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.instrumentation == nil {
		return nil
	}
	return sc.instrumentation.Metrics()
}

// Instrumentation returns the instrumentation provider, which may be nil.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	return sc.instrumentation
}

// CalendarClientForAccount returns the Calendar client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	if !calendar.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Calendar client", "account", account, "error", err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the Calendar client for a specific account.
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and marks the server as stopped.
// Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()
}
