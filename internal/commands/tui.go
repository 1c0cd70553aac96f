package commands

import (
	"github.com/spf13/cobra"

	"finboard/internal/cli"
	"finboard/internal/log"
	"finboard/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		Long: `Run the dashboard in the terminal.

Logs go to FINBOARD_LOG_FILE, or nowhere when it is unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, closeLog, err := cli.OpenLogFile(a.cfg.LogFile)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			logger := a.logger(out)
			svc, err := a.service(logger)
			if err != nil {
				return err
			}

			logger.Info("Starting terminal dashboard",
				log.FieldOperation, log.OpStartup,
				log.FieldTarget, svc.Client().BaseURL())
			return tui.Run(cmd.Context(), svc, logger)
		},
	}
}
