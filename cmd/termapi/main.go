package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avask/termapi/internal/bindings"
	"github.com/avask/termapi/internal/config"
	"github.com/avask/termapi/internal/discovery"
	"github.com/avask/termapi/internal/history"
	"github.com/avask/termapi/internal/httpclient"
	"github.com/avask/termapi/internal/telemetry"
	"github.com/avask/termapi/internal/ui"
	"github.com/avask/termapi/internal/vars"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		envName         string
		envFile         string
		workspace       string
		showVersion     bool
		traceOTEndpoint string
		traceOTInsecure bool
		traceOTService  string
	)

	telemetryCfg := telemetry.ConfigFromEnv(os.Getenv)
	traceOTEndpoint = telemetryCfg.Endpoint
	traceOTInsecure = telemetryCfg.Insecure
	traceOTService = telemetryCfg.ServiceName

	flag.StringVar(&envName, "env", "", "Environment name to use")
	flag.StringVar(&envFile, "env-file", "", "Path to a .env file with extra variables")
	flag.StringVar(&workspace, "workspace", "", "Workspace directory for endpoint discovery")
	flag.BoolVar(&showVersion, "version", false, "Show termapi version")
	flag.StringVar(
		&traceOTEndpoint,
		"trace-otel-endpoint",
		traceOTEndpoint,
		"OTLP collector endpoint for request spans",
	)
	flag.BoolVar(
		&traceOTInsecure,
		"trace-otel-insecure",
		traceOTInsecure,
		"Disable TLS for OTLP trace export",
	)
	flag.StringVar(
		&traceOTService,
		"trace-otel-service",
		traceOTService,
		"Override service.name resource attribute for exported spans",
	)
	flag.Parse()

	telemetryCfg.Endpoint = strings.TrimSpace(traceOTEndpoint)
	telemetryCfg.Insecure = traceOTInsecure
	telemetryCfg.ServiceName = strings.TrimSpace(traceOTService)
	telemetryCfg.Version = version

	if showVersion {
		fmt.Printf("termapi %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Logging to stderr corrupts the alt screen, so debug output goes to a
	// file and everything else is dropped.
	if os.Getenv("TERMAPI_DEBUG") != "" {
		logPath := filepath.Join(config.Dir(), "debug.log")
		if f, logErr := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); logErr == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	settings, settingsHandle, err := config.LoadSettings()
	if err != nil {
		log.Printf("settings load error: %v", err)
		settings = config.DefaultSettings()
		settingsHandle = config.SettingsHandle{
			Path:   filepath.Join(config.Dir(), "settings.toml"),
			Format: config.SettingsFormatTOML,
		}
	}

	if workspace != "" {
		if abs, absErr := filepath.Abs(workspace); absErr == nil {
			workspace = abs
		}
		settings.Discovery.LastRoot = workspace
	}

	environments, err := config.LoadEnvironments(config.EnvironmentsPath())
	if err != nil {
		log.Printf("environments load error: %v", err)
	}
	if envName == "" {
		envName = settings.DefaultEnvironment
	}
	if envName != "" && environments.Provider(envName) == nil {
		log.Printf("environment %q not found in %s", envName, config.EnvironmentsPath())
		envName = ""
	}

	resolver := buildResolver(environments, envName, envFile)

	client := httpclient.NewClient()

	instrumenter, err := telemetry.New(telemetryCfg)
	if err != nil {
		if telemetryCfg.Enabled() {
			log.Printf("telemetry init error: %v", err)
		}
	} else {
		client.SetTelemetry(instrumenter)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := instrumenter.Shutdown(ctx); shutdownErr != nil {
				log.Printf("telemetry shutdown: %v", shutdownErr)
			}
		}()
	}

	historyStore := history.NewStore(config.HistoryPath(), settings.History.Limit)
	if err := historyStore.Load(); err != nil {
		log.Printf("history load error: %v", err)
	}

	bindingMap, _, bindingErr := bindings.Load(config.Dir())
	if bindingErr != nil {
		log.Printf("bindings load error: %v", bindingErr)
		bindingMap = bindings.DefaultMap()
	}

	model := ui.New(ui.Deps{
		Settings:    settings,
		Client:      client,
		Engine:      discovery.NewEngine(),
		History:     historyStore,
		Resolver:    resolver,
		Keys:        bindingMap,
		Environment: envName,
		Version:     version,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if m, ok := final.(*ui.Model); ok {
		updated := m.Settings()
		if updated.Discovery.LastRoot != settings.Discovery.LastRoot {
			if saveErr := config.SaveSettings(updated, settingsHandle); saveErr != nil {
				log.Printf("settings save error: %v", saveErr)
			}
		}
	}
}

// buildResolver layers variable sources: the selected environment wins, then
// the optional .env file, then the process environment.
func buildResolver(envs config.Environments, envName, envFile string) *vars.Resolver {
	var providers []vars.Provider
	if envName != "" {
		if provider := envs.Provider(envName); provider != nil {
			providers = append(providers, provider)
		}
	}
	if envFile != "" {
		provider, err := vars.LoadDotenv(envFile)
		if err != nil {
			log.Printf("env file load error: %v", err)
		} else {
			providers = append(providers, provider)
		}
	}
	providers = append(providers, vars.EnvProvider{})
	return vars.NewResolver(providers...)
}
