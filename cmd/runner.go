package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	client     *reddit.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client // upstream client; built from Config when nil
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, configCommand, authCommand, fetchCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reloads the configuration when --config was given explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if !cmd.IsSet("config") {
		return nil
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	config, err := shared.Load(path)
	if err != nil {
		return err
	}
	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return err
	}

	r.config = config
	r.client = nil
	return nil
}

// redditClient returns the upstream client, building it on first use.
// A non-nil reg receives the outbound request metrics.
func (r *Runner) redditClient(reg prometheus.Registerer) (*reddit.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	httpClient := r.httpClient
	if httpClient == nil {
		var err error
		httpClient, err = reddit.NewHTTPClient(r.config.Upstream, reg)
		if err != nil {
			return nil, err
		}
	}

	r.client = reddit.NewClient(r.config.Upstream, httpClient)
	return r.client, nil
}

// SetLogger replaces the logger, e.g. to keep log output away from the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
