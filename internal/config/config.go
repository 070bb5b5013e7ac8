package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"docetui/internal/eventbus"
)

// EnvPrefix is the prefix of environment overrides, e.g. DOCETUI_SERVER__URL
const EnvPrefix = "DOCETUI_"

// Config represents the application configuration. Once loaded it is
// treated as read-only and passed by value to the components that need it.
type Config struct {
	Version      int              `koanf:"version" toml:"version"`
	Server       ServerConfig     `koanf:"server" toml:"server"`
	URLs         URLConfig        `koanf:"urls" toml:"urls"`
	Language     string           `koanf:"language" toml:"language"`
	Packages     []string         `koanf:"packages" toml:"packages"`
	Pagination   PaginationConfig `koanf:"pagination" toml:"pagination"`
	Profile      ProfileConfig    `koanf:"profile" toml:"profile"`
	Localization Localization     `koanf:"localization" toml:"localization"`
	Elements     Elements         `koanf:"elements" toml:"elements"`
	UI           UISettings       `koanf:"ui" toml:"ui"`
}

// ServerConfig locates the docet server
type ServerConfig struct {
	URL            string            `koanf:"url" toml:"url"`
	TimeoutSeconds int               `koanf:"timeout_seconds" toml:"timeout_seconds"`
	UserAgent      string            `koanf:"user_agent" toml:"user_agent"`
	Params         map[string]string `koanf:"params" toml:"params"` // added to every request
}

// URLConfig holds the endpoint paths, relative to Server.URL
type URLConfig struct {
	Base        string `koanf:"base" toml:"base"`
	Search      string `koanf:"search" toml:"search"`
	TOC         string `koanf:"toc" toml:"toc"`
	PackageList string `koanf:"packagelist" toml:"packagelist"`
	Pages       string `koanf:"pages" toml:"pages"`
}

type PaginationConfig struct {
	Size int `koanf:"size" toml:"size"`
}

type ProfileConfig struct {
	ShowPageID bool `koanf:"show_page_id" toml:"show_page_id"`
}

// Localization holds every user visible string. ${num}, ${term} and
// ${numPkg} are substituted in the result count messages.
type Localization struct {
	PageTitle              string `koanf:"page_title" toml:"page_title"`
	MainPageTitle          string `koanf:"main_page_title" toml:"main_page_title"`
	MainPageDescription    string `koanf:"main_page_description" toml:"main_page_description"`
	SearchResultTitle      string `koanf:"search_result_title" toml:"search_result_title"`
	ShowMoreResults        string `koanf:"show_more_results" toml:"show_more_results"`
	ShowLessResults        string `koanf:"show_less_results" toml:"show_less_results"`
	PackageResultsFound    string `koanf:"package_results_found" toml:"package_results_found"`
	SearchButtonLabel      string `koanf:"search_button_label" toml:"search_button_label"`
	SearchInputPlaceholder string `koanf:"search_input_placeholder" toml:"search_input_placeholder"`
	NoResultsFound         string `koanf:"no_results_found" toml:"no_results_found"`
	SomeResultsFound       string `koanf:"some_results_found" toml:"some_results_found"`
	TopLink                string `koanf:"top_link" toml:"top_link"`
}

// Elements are the ids of the containers in the rendered HTML document
type Elements struct {
	Main        string `koanf:"main" toml:"main"`
	Content     string `koanf:"content" toml:"content"`
	Menu        string `koanf:"menu" toml:"menu"`
	Search      string `koanf:"search" toml:"search"`
	Breadcrumbs string `koanf:"breadcrumbs" toml:"breadcrumbs"`
	Footer      string `koanf:"footer" toml:"footer"`
}

// UISettings represents terminal UI configuration
type UISettings struct {
	TocWidth     int  `koanf:"toc_width" toml:"toc_width"`
	StartWithToc bool `koanf:"start_with_toc" toml:"start_with_toc"`
}

// Timeout returns the HTTP timeout
func (c Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Validate checks that the configuration contains usable values
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return errors.New("server.url is required")
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url %q must start with http:// or https://", c.Server.URL)
	}
	if c.Pagination.Size <= 0 {
		return fmt.Errorf("pagination.size must be positive, got %d", c.Pagination.Size)
	}
	if c.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted at path. An empty path
// selects DefaultPath.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: expandPath(path)}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// DefaultPath returns ~/.config/docetui/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "docetui", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service path. A missing file yields
// the defaults, environment overrides still apply.
func (cs *configService) Load() (*Config, error) {
	cfg, err := load(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath, ServerURL: cfg.Server.URL})
	}
	return cfg, nil
}

// Save saves the configuration to the service path
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(expandPath(path), true)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := gotoml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func load(path string, mustExist bool) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) || mustExist {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// DOCETUI_SERVER__URL -> server.url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Server.URL = strings.TrimSuffix(cfg.Server.URL, "/")
	return cfg, nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			URL:            "http://localhost:8080",
			TimeoutSeconds: 30,
			UserAgent:      "docetui/1.0",
			Params:         map[string]string{},
		},
		URLs: URLConfig{
			Base:        "/docs",
			Search:      "/search",
			TOC:         "/toc",
			PackageList: "/package",
			Pages:       "/pages",
		},
		Language:   "it",
		Pagination: PaginationConfig{Size: 5},
		Profile:    ProfileConfig{ShowPageID: true},
		Localization: Localization{
			PageTitle:              "Docet",
			MainPageTitle:          "Home",
			MainPageDescription:    "Here is a list of available packages",
			SearchResultTitle:      "Search Results",
			ShowMoreResults:        "Show more in",
			ShowLessResults:        "Show less...",
			PackageResultsFound:    "Found ${num} results",
			SearchButtonLabel:      "Search",
			SearchInputPlaceholder: "Enter a search term or sentence...",
			NoResultsFound:         "Your search ${term} did not match any documents.",
			SomeResultsFound:       "Found ${num} results for ${term}.",
			TopLink:                "Top",
		},
		Elements: Elements{
			Main:        "docet-main-container",
			Content:     "docet-content-anchor",
			Menu:        "docet-menu-anchor",
			Search:      "docet-search-anchor",
			Breadcrumbs: "docet-breadcrumbs-anchor",
			Footer:      "docet-footer-anchor",
		},
		UI: UISettings{
			TocWidth:     32,
			StartWithToc: true,
		},
	}
}
