package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finboard/internal/dashboard"
)

func newAccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts and net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger(cmd.ErrOrStderr())
			svc, err := a.service(logger)
			if err != nil {
				return err
			}

			panel := dashboard.NewAccountsPanel(svc, logger)
			res := panel.Fetch(cmd.Context())
			panel.Apply(res)
			if res.Err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgAccountsFailed, res.Err)
			}

			out := cmd.OutOrStdout()
			v := panel.View()
			section(out, "Accounts")
			if len(v.Rows) == 0 {
				muted(out, "No accounts.")
			} else {
				t := newTable("ID", "Name", "Institution", "Number", "Balance")
				for _, r := range v.Rows {
					t.Row(r.ID.String(), r.Name, r.OrgName, r.Masked, amount(r.Balance, r.Negative))
				}
				_, _ = fmt.Fprintln(out, t.Render())
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", primaryStyle.Render("Net Worth:"), v.NetWorth)
			return nil
		},
	}
}
