package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finboard/internal/core"
	"finboard/internal/dashboard"
)

func newTransactionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID := core.ID(strings.TrimSpace(args[0]))
			if accountID == "" {
				return core.ErrEmptyAccountID
			}

			logger := a.logger(cmd.ErrOrStderr())
			svc, err := a.service(logger)
			if err != nil {
				return err
			}

			list := dashboard.NewTransactionsList(svc, logger)
			defer list.Close()

			ctx, ticket, _ := list.Begin(cmd.Context(), accountID)
			res := list.Fetch(ctx, ticket)
			list.Apply(res)
			if res.Err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgTransactionsFailed, res.Err)
			}

			out := cmd.OutOrStdout()
			v := list.View()
			section(out, "Transactions for "+accountID.String())
			if v.Message != "" {
				muted(out, "%s", v.Message)
				return nil
			}

			t := newTable("Date", "Description", "Payee", "Memo", "Amount", "")
			for _, r := range v.Rows {
				status := ""
				if r.Pending {
					status = pendingStyle.Render("Pending")
				}
				t.Row(r.Date, r.Description, r.Payee, r.Memo, amount(r.Amount, r.Debit), status)
			}
			_, _ = fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}
