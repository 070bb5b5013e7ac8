package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docetui/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5, cfg.Pagination.Size)
	assert.Equal(t, "/package", cfg.URLs.PackageList)
	assert.NoError(t, cfg.Validate())
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.Server.URL = "https://docs.example.com"
	cfg.Language = "en"
	cfg.Packages = []string{"manual", "api"}
	cfg.Pagination.Size = 3
	cfg.Server.Params = map[string]string{"tenant": "acme"}

	require.NoError(t, svc.Save(cfg))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", loaded.Server.URL)
	assert.Equal(t, "en", loaded.Language)
	assert.Equal(t, []string{"manual", "api"}, loaded.Packages)
	assert.Equal(t, 3, loaded.Pagination.Size)
	assert.Equal(t, "acme", loaded.Server.Params["tenant"])
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
language = "en"

[server]
url = "http://docs.local:9000/"

[localization]
main_page_title = "Start"
`), 0644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "http://docs.local:9000", cfg.Server.URL, "trailing slash is trimmed")
	assert.Equal(t, "Start", cfg.Localization.MainPageTitle)
	assert.Equal(t, "Search Results", cfg.Localization.SearchResultTitle)
	assert.Equal(t, "/toc", cfg.URLs.TOC)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCETUI_LANGUAGE", "de")
	t.Setenv("DOCETUI_SERVER__URL", "http://env.example.com")
	t.Setenv("DOCETUI_PAGINATION__SIZE", "7")

	cfg, err := NewConfigService(filepath.Join(t.TempDir(), "none.toml")).Load()
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "http://env.example.com", cfg.Server.URL)
	assert.Equal(t, 7, cfg.Pagination.Size)
}

func TestLoadFromPathRequiresFile(t *testing.T) {
	_, err := NewConfigService("").LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("language = \n[[["), 0644))

	_, err := NewConfigService(path).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.URL = "ftp://x"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pagination.Size = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.TimeoutSeconds = 0
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { got <- e })

	path := filepath.Join(t.TempDir(), "config.toml")
	_, err := NewConfigServiceWithBus(path, bus).Load()
	require.NoError(t, err)

	select {
	case e := <-got:
		assert.Equal(t, path, e.(eventbus.ConfigLoadedEvent).Path)
	case <-time.After(2 * time.Second):
		t.Fatal("ConfigLoaded not published")
	}
}
