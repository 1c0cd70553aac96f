// Package commands wires configuration, logging and the backend client into
// the finboard subcommands.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"finboard/internal/api"
	"finboard/internal/cli"
	"finboard/internal/config"
	"finboard/internal/log"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// app carries global flags and the configuration resolved from them.
type app struct {
	apiURL string
	mode   string
	debug  bool

	cfg *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "finboard",
		Short: "Personal finance dashboard",
		Long: `finboard shows accounts, balances and transactions from the personal
finance backend.

It runs as a web dashboard (serve), as a terminal dashboard (tui), or prints
accounts and transactions directly.`,
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&a.mode, "mode", "", "Run mode: development or production (overrides FINBOARD_MODE)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Debug logging")

	rootCmd.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newAccountsCmd(a),
		newTransactionsCmd(a),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) loadConfig() error {
	cli.LoadEnvFile()

	cfg := config.Load()
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.mode != "" {
		cfg.Mode = strings.ToLower(strings.TrimSpace(a.mode))
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) logger(out io.Writer) *log.Logger {
	return cli.SetupLogger(a.cfg, out)
}

func (a *app) service(logger *log.Logger) (*api.Service, error) {
	client, err := api.NewClient(a.cfg.BackendURL(),
		api.WithTimeout(a.cfg.APITimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	return api.NewService(client), nil
}
