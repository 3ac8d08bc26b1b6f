// Package commands provides the CLI commands of the Worldbook client.
// It implements the cobra-based command structure with global flags
// and subcommands for reading worldbooks from the Worldbook API.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"worldbook/internal/client"
	"worldbook/internal/config"
	"worldbook/internal/logging"
	"worldbook/internal/manifesto"
	"worldbook/internal/telemetry"
	"worldbook/internal/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serviceName = "worldbook-cli"

// Flag names for persistent global flags.
const (
	flagJSON      = "json"
	flagBaseURL   = "base-url"
	flagConfig    = "config"
	flagTimeout   = "timeout"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagNoColor   = "no-color"
)

// envNoColor disables styling when set to any value.
const envNoColor = "NO_COLOR"

// Invocation is the configuration of one CLI run. It is resolved once before
// the selected command runs and is read-only afterwards.
type Invocation struct {
	JSONOutput bool
	BaseURL    string
	Timeout    time.Duration
	Styled     bool

	Logger  logging.ApplicationLogger
	Printer *client.Printer
	Metrics *client.RequestMetrics

	telemetry *telemetry.Provider
}

type invocationKey struct{}

// InvocationFromContext returns the invocation stored by the root command.
func InvocationFromContext(ctx context.Context) (*Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(*Invocation)
	return inv, ok && inv != nil
}

// errReported marks an error whose message was already written to stdout.
var errReported = errors.New("error already reported")

// NewRootCmd creates and returns the root command for the Worldbook CLI.
// The root command establishes persistent flags that are inherited by all
// subcommands and resolves the Invocation before any of them runs.
//
// Subcommands:
//   - manifesto: Print the Dual Protocol Manifesto
//   - status: Show CLI status
//   - query: Search worldbooks
//   - get: Print the worldbook of a service
//   - version: Show version information
//
// Global Flags:
//   - --json: Output JSON on every branch
//   - --base-url: API origin (default: https://worldbook.it.com, env WORLDBOOK_BASE_URL)
//   - --config: Config file (default: <user config dir>/worldbook/config.yaml)
//   - --timeout: Request timeout duration (default: 10s)
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "worldbook",
		Short: "Worldbook CLI - AI's knowledge base",
		Long: `Worldbook CLI - AI's knowledge base

"` + manifesto.Motto + `"

Fetch worldbooks, short text documents that tell agents how to use a service.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := newInvocation(cmd, v, cfgFile)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), invocationKey{}, inv))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			inv, ok := InvocationFromContext(cmd.Context())
			if !ok {
				return nil
			}
			inv.finish(cmd.Context())
			return nil
		},
	}
	cmd.SetVersionTemplate(versionTemplate())

	pf := cmd.PersistentFlags()
	pf.Bool(flagJSON, false, "Output as JSON")
	pf.String(flagBaseURL, config.DefaultBaseURL, "Worldbook API base URL (env WORLDBOOK_BASE_URL)")
	pf.StringVar(&cfgFile, flagConfig, "", "Config file (default: <user config dir>/worldbook/config.yaml)")
	pf.Duration(flagTimeout, config.DefaultTimeout, "Request timeout")
	pf.String(flagLogLevel, config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.String(flagLogFormat, config.DefaultLogFormat, "Log format (json, text)")
	pf.Bool(flagNoColor, false, "Disable styled output")

	for key, flag := range map[string]string{
		config.KeyJSON:      flagJSON,
		config.KeyBaseURL:   flagBaseURL,
		config.KeyTimeout:   flagTimeout,
		config.KeyLogLevel:  flagLogLevel,
		config.KeyLogFormat: flagLogFormat,
		config.KeyNoColor:   flagNoColor,
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}

	cmd.AddCommand(NewManifestoCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// versionTemplate prints the bare version, or a {"version": ...} document when
// --json is on the command line. --version runs before the configuration is
// loaded, so only the flag is consulted.
func versionTemplate() string {
	doc, err := json.MarshalIndent(struct {
		Version string `json:"version"`
	}{version.String()}, "", "  ")
	if err != nil {
		return "{{.Version}}\n"
	}
	return `{{if eq (.Flags.Lookup "` + flagJSON + `").Value.String "true"}}` + string(doc) +
		"\n{{else}}{{.Version}}\n{{end}}"
}

// Execute runs cmd and returns the process exit status. Errors that were
// already written to stdout are not repeated on stderr.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return 1
}

func newInvocation(cmd *cobra.Command, v *viper.Viper, cfgFile string) (*Invocation, error) {
	cfg, err := config.Load(v, cfgFile, config.SearchPaths())
	if err != nil {
		// The configuration could not be resolved, so the output mode comes
		// from the raw flag and environment lookups.
		printer := client.NewPrinter(cmd.OutOrStdout(), v.GetBool(config.KeyJSON), false)
		_ = printer.Error(client.ErrorOutput{Error: err.Error()}, "Error: "+err.Error())
		return nil, fmt.Errorf("%w: %w", errReported, err)
	}

	logger, err := logging.NewApplicationLogger(cfg.LoggingConfig(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger = logger.WithComponent("cli")

	ctx := logging.NewCorrelationContext(cmd.Context())
	cmd.SetContext(ctx)

	provider, err := telemetry.NewProvider(ctx, serviceName, version.String())
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	metrics, err := client.NewRequestMetrics(provider.MeterProvider())
	if err != nil {
		_ = provider.Shutdown(ctx)
		_ = logger.Close()
		return nil, fmt.Errorf("failed to create request metrics: %w", err)
	}

	out := cmd.OutOrStdout()
	styled := !cfg.NoColor && os.Getenv(envNoColor) == "" && client.IsTerminal(out)

	inv := &Invocation{
		JSONOutput: cfg.JSON,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		Styled:     styled,
		Logger:     logger,
		Printer:    client.NewPrinter(out, cfg.JSON, styled),
		Metrics:    metrics,
		telemetry:  provider,
	}

	logger.Debug(ctx, "Invocation resolved", logging.Fields{
		"command":  cmd.CommandPath(),
		"base_url": inv.BaseURL,
		"json":     inv.JSONOutput,
		"timeout":  inv.Timeout.String(),
		"config":   v.ConfigFileUsed(),
	})

	return inv, nil
}

// NewClient creates an API client for the invocation's base URL.
func (inv *Invocation) NewClient() (*client.Client, error) {
	return client.NewClient(
		&client.Config{BaseURL: inv.BaseURL, Timeout: inv.Timeout},
		client.WithLogger(inv.Logger),
		client.WithMetrics(inv.Metrics),
	)
}

// finish logs the collected request metrics and releases the invocation.
func (inv *Invocation) finish(ctx context.Context) {
	if inv.telemetry != nil {
		summaries, err := inv.telemetry.Summarize(ctx)
		if err != nil {
			inv.Logger.ErrorWithError(ctx, err, "Failed to collect metrics", nil)
		}
		for _, s := range summaries {
			inv.Logger.Debug(ctx, "Request metrics", logging.Fields{
				"metric":     s.Name,
				"attributes": s.Attributes,
				"value":      s.Value,
				"count":      s.Count,
			})
		}
		if err := inv.telemetry.Shutdown(ctx); err != nil {
			inv.Logger.ErrorWithError(ctx, err, "Failed to shut down telemetry", nil)
		}
	}
	_ = inv.Logger.Close()
}
