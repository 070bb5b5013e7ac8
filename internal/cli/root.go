// Package cli wires the docetui commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docetui/internal/config"
	"docetui/internal/docet"
	"docetui/internal/domain"
	"docetui/internal/eventbus"
	"docetui/internal/navigation"
	"docetui/internal/ui"
)

// e2eEnv makes the TUI print a ready marker for the pty tests
const e2eEnv = "DOCETUI_E2E_TEST"

type rootOptions struct {
	server     string
	language   string
	configPath string
	logPath    string
	packages   []string
	page       string
}

var (
	opts     rootOptions
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "docetui",
	Short: "Browse a docet documentation server from the terminal",
	Long: `docetui shows the packages, table of contents, pages and search results
of a docet server. It starts at the package list, or at --page pkg:page.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		closeLog = setupLogging(opts.logPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		closeLog()
	},
	RunE: runTUI,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.server, "server", "", "docet server URL (overrides the config file)")
	f.StringVar(&opts.language, "lang", "", "documentation language")
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.StringVar(&opts.logPath, "log", "", "log file (default docetui.log in the user cache dir)")
	f.StringSliceVar(&opts.packages, "package", nil, "only show these package ids (repeatable)")

	rootCmd.Flags().StringVar(&opts.page, "page", "", "open pkg:page instead of the package list")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	var pkg, page string
	if opts.page != "" {
		var err error
		if pkg, page, err = parsePageRef(opts.page); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(withContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	defer bus.Close()

	cfg, err := loadConfig(bus)
	if err != nil {
		return err
	}
	client, err := docet.NewClient(*cfg)
	if err != nil {
		return err
	}

	ctrl := navigation.New(*cfg, client, bus, navigation.Callbacks{
		OnResponseError: func(err error) {
			bus.Publish(eventbus.ResponseErrorEvent{Err: err})
		},
		OnSearchError: func(result domain.PackageResults) {
			bus.Publish(eventbus.SearchErrorEvent{Result: result})
		},
		OnPackageListError: func(p domain.PackageDescriptor) {
			bus.Publish(eventbus.PackageListErrorEvent{Package: p})
		},
	})

	log.Printf("Creating UI model...")
	model := ui.NewModel(ctx, cfg, ctrl)
	if pkg != "" {
		model.SetStartPage(pkg, page)
	}

	e2e := os.Getenv(e2eEnv) == "1"
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !e2e {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, programOpts...)
	model.SetProgram(p)

	// Forward domain events to the UI
	for _, t := range []eventbus.EventType{
		eventbus.EventPackageListLoaded,
		eventbus.EventTocLoaded,
		eventbus.EventPageOpened,
		eventbus.EventSearchCompleted,
		eventbus.EventSearchPaged,
		eventbus.EventNavigatedHome,
		eventbus.EventError,
		eventbus.EventResponseError,
		eventbus.EventSearchError,
		eventbus.EventPackageListError,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	if e2e {
		go p.Println("__READY__")
	}
	bus.Publish(eventbus.AppReadyEvent{})

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Printf("UI interrupted")
			return nil
		}
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}

// loadConfig loads the config file, writing the defaults on first run, and
// applies the command line overrides
func loadConfig(bus eventbus.EventBus) (*config.Config, error) {
	configSvc := config.NewConfigServiceWithBus(opts.configPath, bus)

	cfg, err := loadOrCreateConfig(configSvc)
	if err != nil {
		return nil, err
	}

	if opts.server != "" {
		cfg.Server.URL = strings.TrimSuffix(opts.server, "/")
	}
	if opts.language != "" {
		cfg.Language = opts.language
	}
	if len(opts.packages) > 0 {
		cfg.Packages = opts.packages
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadOrCreateConfig loads the config or saves the defaults when there is
// no file yet
func loadOrCreateConfig(configSvc config.ConfigService) (*config.Config, error) {
	path := configSvc.Path()
	_, statErr := os.Stat(path)

	cfg, err := configSvc.Load()
	if err != nil {
		return nil, err
	}
	if os.IsNotExist(statErr) {
		log.Printf("Creating new config at %s", path)
		if err := configSvc.Save(cfg); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
	} else {
		log.Printf("Loaded config from %s", path)
	}
	return cfg, nil
}

// setupLogging sends the standard logger to a file; nothing may reach the
// terminal while the TUI runs
func setupLogging(path string) func() {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "docetui", "docetui.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { logFile.Close() }
}

// parsePageRef splits a pkg:page argument
func parsePageRef(s string) (string, string, error) {
	pkg, page, ok := strings.Cut(s, ":")
	pkg, page = strings.TrimSpace(pkg), strings.TrimSpace(page)
	if !ok || pkg == "" || page == "" {
		return "", "", fmt.Errorf("invalid page %q: want package:page", s)
	}
	return pkg, page, nil
}

// withContext returns cmd's context, or a background one when the command
// runs outside Execute
func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
