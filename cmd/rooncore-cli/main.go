// Command rooncore-cli is an interactive client for finding Roon Core
// servers on the local network.
//
// This command demonstrates the discovery and credential subsystems with:
//   - CLI argument parsing
//   - Configuration file support
//   - SOOD multicast and broadcast discovery
//   - Persistent pairing credentials
//   - Protocol trace logging
//
// Usage:
//
//	rooncore-cli [flags]
//
// Flags:
//
//	-config string       Configuration file path (YAML)
//	-timeout int         Discovery timeout in seconds (default 5)
//	-port int            Discovery port (default 9003)
//	-group string        Multicast group (default 239.255.90.90)
//	-credentials string  Credentials file path (default ~/.config/rooncore/config.json)
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-trace string        Write a CBOR protocol trace to this file
//
// Examples:
//
//	# Discover Cores with default settings
//	rooncore-cli
//
//	# Longer discovery window with debug logging
//	rooncore-cli -timeout 10 -log-level debug
//
//	# Capture a protocol trace for later analysis
//	rooncore-cli -trace /tmp/discovery.trace
//
// Interactive Commands:
//
//	discover [seconds] - Run a discovery pass
//	targets            - Show the broadcast targets that probes go to
//	saved              - Show saved pairing credentials
//	forget             - Delete saved pairing credentials
//	help               - Show command help
//	quit               - Exit
package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roon-community/rooncore-go/cmd/rooncore-cli/interactive"
	"github.com/roon-community/rooncore-go/pkg/credentials"
	"github.com/roon-community/rooncore-go/pkg/discovery"
	"github.com/roon-community/rooncore-go/pkg/log"
)

// Config holds the CLI configuration, merged from flags and an optional
// YAML configuration file. Flags that were set explicitly win.
type Config struct {
	ConfigFile      string `yaml:"-"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	Port            int    `yaml:"port"`
	MulticastGroup  string `yaml:"multicast_group"`
	CredentialsFile string `yaml:"credentials_file"`
	LogLevel        string `yaml:"log_level"`
	TraceFile       string `yaml:"trace_file"`
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.IntVar(&config.TimeoutSeconds, "timeout", 5, "Discovery timeout in seconds")
	flag.IntVar(&config.Port, "port", discovery.Port, "Discovery port")
	flag.StringVar(&config.MulticastGroup, "group", discovery.MulticastGroup, "Multicast group")
	flag.StringVar(&config.CredentialsFile, "credentials", "", "Credentials file path")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.TraceFile, "trace", "", "Write a CBOR protocol trace to this file")
}

func main() {
	flag.Parse()

	if err := loadConfigFile(); err != nil {
		stdlog.Fatalf("Failed to load config file: %v", err)
	}

	if config.CredentialsFile == "" {
		path, err := credentials.DefaultPath()
		if err != nil {
			stdlog.Fatalf("Failed to resolve credentials path: %v", err)
		}
		config.CredentialsFile = path
	}

	var trace log.Logger = log.NoopLogger{}
	if config.TraceFile != "" {
		fl, err := log.NewFileLogger(config.TraceFile)
		if err != nil {
			stdlog.Fatalf("Failed to open trace file: %v", err)
		}
		defer fl.Close()
		trace = fl
	}

	cli, err := interactive.New(interactive.Config{
		Timeout:         time.Duration(config.TimeoutSeconds) * time.Second,
		Port:            config.Port,
		MulticastGroup:  config.MulticastGroup,
		CredentialsFile: config.CredentialsFile,
		LogLevel:        parseLogLevel(config.LogLevel),
		Trace:           trace,
	})
	if err != nil {
		stdlog.Fatalf("Failed to create interactive client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cli.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-ctx.Done():
		// Cancelled by the quit command
	}
}

// loadConfigFile merges the YAML configuration file into config. Values
// from the file apply only where the corresponding flag was left at its
// default.
func loadConfigFile() error {
	if config.ConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(config.ConfigFile)
	if err != nil {
		return err
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["timeout"] && fromFile.TimeoutSeconds > 0 {
		config.TimeoutSeconds = fromFile.TimeoutSeconds
	}
	if !set["port"] && fromFile.Port > 0 {
		config.Port = fromFile.Port
	}
	if !set["group"] && fromFile.MulticastGroup != "" {
		config.MulticastGroup = fromFile.MulticastGroup
	}
	if !set["credentials"] && fromFile.CredentialsFile != "" {
		config.CredentialsFile = fromFile.CredentialsFile
	}
	if !set["log-level"] && fromFile.LogLevel != "" {
		config.LogLevel = fromFile.LogLevel
	}
	if !set["trace"] && fromFile.TraceFile != "" {
		config.TraceFile = fromFile.TraceFile
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
