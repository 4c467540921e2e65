package report_tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calaudit/internal/config"
	"github.com/teemow/calaudit/internal/server"
	"github.com/teemow/calaudit/internal/timeline"
)

func newTestServerContext(t *testing.T, cfg *config.Config) *server.ServerContext {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	sc, err := server.NewServerContext(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(sc.Shutdown)
	return sc
}

func TestParseDateArg(t *testing.T) {
	date, err := parseDateArg(map[string]interface{}{"date": "2026-03-02"}, "date")
	require.NoError(t, err)
	assert.Equal(t, timeline.Date{Year: 2026, Month: 3, Day: 2}, date)

	_, err = parseDateArg(map[string]interface{}{}, "date")
	assert.ErrorContains(t, err, "date is required")

	_, err = parseDateArg(map[string]interface{}{"date": "03/02/2026"}, "date")
	assert.ErrorContains(t, err, "invalid date")
}

func TestResolveUsers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Users = []string{"configured@example.com"}
	sc := newTestServerContext(t, cfg)

	users, err := resolveUsers(map[string]interface{}{}, sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"configured@example.com"}, users)

	users, err = resolveUsers(map[string]interface{}{
		"users": "alice@example.com, bob@example.com,,",
	}, sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, users)
}

func TestResolveUsersEmpty(t *testing.T) {
	sc := newTestServerContext(t, config.DefaultConfig())

	_, err := resolveUsers(map[string]interface{}{}, sc)
	assert.ErrorContains(t, err, "no users")
}

func TestGetCalendarClientWithoutToken(t *testing.T) {
	sc := newTestServerContext(t, config.DefaultConfig())

	_, err := getCalendarClient(context.Background(), "work", sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token not found")
	assert.Contains(t, err.Error(), "google_save_auth_code")
}
