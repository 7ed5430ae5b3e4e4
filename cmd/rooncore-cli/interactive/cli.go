// Package interactive provides the interactive command-line interface
// for the rooncore CLI.
package interactive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/roon-community/rooncore-go/pkg/credentials"
	"github.com/roon-community/rooncore-go/pkg/discovery"
	"github.com/roon-community/rooncore-go/pkg/log"
)

// Config holds the settings for an interactive client.
type Config struct {
	// Timeout is the default discovery window.
	Timeout time.Duration

	// Port is the discovery port probes are sent to.
	Port int

	// MulticastGroup is the discovery multicast group.
	MulticastGroup string

	// CredentialsFile is the path of the pairing credentials file.
	CredentialsFile string

	// LogLevel controls the verbosity of operational log output.
	LogLevel slog.Level

	// Trace receives protocol trace events; nil discards them.
	Trace log.Logger
}

// CLI handles the interactive command loop.
type CLI struct {
	cfg      Config
	rl       *readline.Instance
	logger   *slog.Logger
	svc      *discovery.Service
	resolver *discovery.InterfaceResolver
	store    *credentials.FileStore

	// Results of the most recent discovery pass.
	lastResults []discovery.ServerRecord
}

// New creates an interactive client.
func New(cfg Config) (*CLI, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "roon> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(rl.Stdout(), &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	resolver := &discovery.InterfaceResolver{Logger: logger}
	svc := discovery.New(discovery.Config{
		Port:           cfg.Port,
		MulticastGroup: cfg.MulticastGroup,
		Resolver:       resolver,
		Logger:         logger,
		Trace:          cfg.Trace,
	})

	return &CLI{
		cfg:      cfg,
		rl:       rl,
		logger:   logger,
		svc:      svc,
		resolver: resolver,
		store:    credentials.NewFileStore(cfg.CredentialsFile),
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *CLI) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *CLI) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "discover", "d":
			c.cmdDiscover(args)

		case "targets":
			c.cmdTargets()

		case "saved":
			c.cmdSaved()

		case "forget":
			c.cmdForget()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *CLI) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Roon Core Commands:
  discover [seconds] - Run a discovery pass
  targets            - Show the broadcast targets that probes go to
  saved              - Show saved pairing credentials
  forget             - Delete saved pairing credentials
  help               - Show this help
  quit               - Exit`)
}

// cmdDiscover runs one discovery pass and prints the Cores found.
func (c *CLI) cmdDiscover(args []string) {
	timeout := c.cfg.Timeout
	if len(args) > 0 {
		secs, err := strconv.Atoi(args[0])
		if err != nil || secs <= 0 {
			fmt.Fprintf(c.rl.Stdout(), "Invalid timeout: %s\n", args[0])
			return
		}
		timeout = time.Duration(secs) * time.Second
	}

	fmt.Fprintf(c.rl.Stdout(), "Discovering for %s...\n", timeout)
	results := c.svc.Discover(timeout)
	c.lastResults = results

	if len(results) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No Roon Core found")
		return
	}

	for i, server := range results {
		fmt.Fprintf(c.rl.Stdout(), "  [%d] %s\n", i+1, server)
	}
}

// cmdTargets shows the resolved broadcast targets.
func (c *CLI) cmdTargets() {
	for _, target := range c.resolver.ResolveBroadcastTargets() {
		fmt.Fprintf(c.rl.Stdout(), "  %s:%d\n", target, c.portOrDefault())
	}
}

// cmdSaved shows the persisted pairing credentials, if any.
func (c *CLI) cmdSaved() {
	creds, err := c.store.Load()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to load credentials: %v\n", err)
		return
	}
	if creds.CoreID == "" {
		fmt.Fprintln(c.rl.Stdout(), "No saved credentials")
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "  Core:  %s (%s)\n", creds.CoreName, creds.CoreID)
	fmt.Fprintf(c.rl.Stdout(), "  Host:  %s:%d\n", creds.Host, creds.Port)
	if creds.Token != "" {
		fmt.Fprintln(c.rl.Stdout(), "  Token: saved")
	} else {
		fmt.Fprintln(c.rl.Stdout(), "  Token: none (not yet authorized)")
	}
}

// cmdForget deletes the persisted pairing credentials.
func (c *CLI) cmdForget() {
	if err := c.store.Clear(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to clear credentials: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Credentials cleared")
}

func (c *CLI) portOrDefault() int {
	if c.cfg.Port > 0 {
		return c.cfg.Port
	}
	return discovery.Port
}
