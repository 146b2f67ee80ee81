package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/logic"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "LegendLift-Mobile-App", cfg.API.UserAgent)
	assert.Equal(t, []string{"callbacks", "repairs", "customers", "services", "complaints", "technicians", "payments"}, cfg.ScreenNames())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://lift.example/api/v1"
	cfg.API.Timeout = Duration{12 * time.Second}
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://lift.example/api/v1", loaded.API.BaseURL)
	assert.Equal(t, 12*time.Second, loaded.API.Timeout.Duration)

	complaints, err := loaded.Screen("complaints")
	require.NoError(t, err)
	require.Len(t, complaints.Sort, 3)
	assert.Equal(t, logic.KindTime, complaints.Sort[2].Kind)
	assert.Equal(t, []string{"resolved", "closed"}, complaints.Sort[2].FlipFor)
}

func TestLoadCustomScreens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
version = 1
log_level = "debug"

[api]
base_url = "http://10.0.0.5:8000/api/v1"
timeout = "5s"

[[screens]]
name = "callbacks"
endpoint = "/callbacks/"
search_fields = ["customer_name", "description"]
members_field = "technicians"
member_id_field = "technician_id"
writable = true

[[screens.sort]]
field = "priority"
kind = "rank"
ranks = ["urgent", "high", "medium", "low"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "LegendLift-Mobile-App", cfg.API.UserAgent)
	require.Equal(t, []string{"callbacks"}, cfg.ScreenNames())

	s := cfg.Screens[0]
	assert.Equal(t, "Callbacks", s.Title)
	assert.Equal(t, "id", s.IDField)
	assert.Equal(t, s.SearchFields, s.SuggestFields)
	assert.Equal(t, s.SearchFields, s.FormFields)
	assert.True(t, s.HasMembers())
	require.Len(t, s.Sort, 1)
	assert.Equal(t, logic.KindRank, s.Sort[0].Kind)
}

func TestLoadRejectsInvalidScreens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[screens]]
name = "broken"
endpoint = "/x/"
members_field = "technicians"
`), 0o644))

	_, err := NewConfigServiceAt(path).Load()
	assert.ErrorContains(t, err, "member_id_field")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIFTDESK_API_URL", "http://env-host/api/v1")
	t.Setenv("LIFTDESK_TIMEOUT", "45s")
	t.Setenv("LIFTDESK_LOG_LEVEL", "warn")

	cfg, err := NewConfigServiceAt(filepath.Join(t.TempDir(), "missing.toml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env-host/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout.Duration)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestScreenLookup(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.Screen("nope")
	assert.ErrorIs(t, err, ErrUnknownScreen)

	cb, err := cfg.Screen("callbacks")
	require.NoError(t, err)
	assert.True(t, cb.HasMembers())
	assert.Equal(t, []string{"status"}, cb.FilterFields())
	f, ok := cb.Filter("status")
	require.True(t, ok)
	assert.Contains(t, f.Values, "PENDING")

	tech, err := cfg.Screen("technicians")
	require.NoError(t, err)
	assert.Equal(t, "users", tech.CollectionKey)
	assert.False(t, tech.Writable)
}

func TestCallbacksSortByPriority(t *testing.T) {
	cb, err := DefaultConfig().Screen("callbacks")
	require.NoError(t, err)
	require.Len(t, cb.Sort, 1)
	assert.Equal(t, "priority", cb.Sort[0].Field)
	assert.Equal(t, logic.KindRank, cb.Sort[0].Kind)
	assert.Equal(t, []string{"urgent", "high", "medium", "low"}, cb.Sort[0].Ranks)
}

func TestPaymentsScreen(t *testing.T) {
	p, err := DefaultConfig().Screen("payments")
	require.NoError(t, err)
	assert.Equal(t, "/payments/", p.Endpoint)
	assert.False(t, p.Writable)
	assert.Equal(t, []string{"customer_name", "invoice_number"}, p.SearchFields)
	assert.Equal(t, []string{"customer_name", "invoice_number"}, p.SuggestFields)
	f, ok := p.Filter("status")
	require.True(t, ok)
	assert.Equal(t, []string{"PAID", "PENDING", "OVERDUE", "PARTIAL"}, f.Values)
	assert.Equal(t, "amount", p.AmountField)
	assert.Equal(t, "INR", p.Currency)
	assert.Empty(t, p.Sort)
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := NewConfigService().LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "config file not found")
}
