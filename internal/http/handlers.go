package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/api"
	"finboard/internal/dashboard"
	"finboard/internal/log"
)

// newShell builds request-scoped view models logging through the request
// logger.
func (s *Server) newShell(ctx context.Context) *dashboard.Shell {
	logger := log.FromContext(ctx)
	return dashboard.NewShell(ctx,
		dashboard.NewAccountsPanel(s.source, logger),
		dashboard.NewTransactionsList(s.source, logger))
}

// settle runs the accounts fetch (when withPanel) and any queued
// transactions fetch concurrently, then applies the results in the request
// goroutine. Without withList queued fetches are cancelled unrun.
func (s *Server) settle(ctx context.Context, shell *dashboard.Shell, withPanel, withList bool) {
	fetches := shell.Drain()
	panel, list := shell.Panel(), shell.Transactions()

	results := make([]dashboard.TransactionsResult, len(fetches))
	var (
		g        errgroup.Group
		accounts dashboard.AccountsResult
	)
	if withPanel {
		g.Go(func() error {
			accounts = panel.Fetch(ctx)
			return nil
		})
	}
	if withList {
		for i, f := range fetches {
			g.Go(func() error {
				results[i] = list.Fetch(f.Ctx, f.Ticket)
				return nil
			})
		}
	} else {
		list.Close()
	}
	_ = g.Wait()

	if withPanel {
		panel.Apply(accounts)
	}
	if withList {
		for _, res := range results {
			list.Apply(res)
		}
	}
}

// deferLoad cancels the queued transactions fetches and leaves the panel and
// list in their loading views. The page then loads them from /ui/accounts
// and /ui/transactions.
func (s *Server) deferLoad(shell *dashboard.Shell) []dashboard.Fetch {
	fetches := shell.Drain()
	shell.Transactions().Close()
	return fetches
}

// handleIndex renders the dashboard shell for ?tab=&account=.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tab, _ := dashboard.ParseTab(r.URL.Query().Get("tab"))
	accountID := queryAccount(r, "account")

	shell := s.newShell(r.Context())
	shell.SetTab(tab)
	shell.SelectAccount(accountID)
	s.deferLoad(shell)

	s.render(w, r, "index.html", newPageData(shell))
}

// handleAccounts renders the accounts panel partial.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	tab, _ := dashboard.ParseTab(r.URL.Query().Get("tab"))

	shell := s.newShell(r.Context())
	shell.SetTab(tab)
	shell.SelectAccount(queryAccount(r, "account"))
	s.settle(r.Context(), shell, true, false)

	s.render(w, r, "accounts_panel", newPageData(shell))
}

// handleTransactions renders the list partial for ?account_id=.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	shell := s.newShell(r.Context())
	shell.SelectAccount(queryAccount(r, "account_id", "account"))
	s.settle(r.Context(), shell, false, true)

	s.render(w, r, "transactions_list", newPageData(shell).List)
}

// handleContent swaps the main content for a tab and selection change. The
// tab bar and the hidden shell state ride along out of band.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	tab, _ := dashboard.ParseTab(r.URL.Query().Get("tab"))
	accountID := queryAccount(r, "account")

	shell := s.newShell(r.Context())
	shell.SetTab(tab)
	shell.SelectAccount(accountID)
	s.deferLoad(shell)

	data := newPageData(shell)
	data.OOB = true
	if isHTMX(r) {
		w.Header().Set("HX-Push-Url", pageHref(tab, accountID))
	}
	s.render(w, r, "content_partial", data)
}

// render buffers the template so a failure still yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).Error("Template execution failed",
			log.NewFields().
				WithOperation(log.OpRender).
				WithErrorType(log.ErrorTypeInternal).
				WithError(err).
				ToSlice()...)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"requests": map[string]any{
			"total":         tm.TotalRequests,
			"server_errors": tm.ServerErrors,
			"suspicious":    s.detector.GetMetrics().SuspiciousRequests,
		},
	}
	if s.limiter != nil {
		lm := s.limiter.GetMetrics()
		health["rate_limit"] = map[string]any{
			"rejected": lm.Rejected,
			"clients":  lm.ClientCount,
		}
	}
	writeJSON(w, http.StatusOK, health)
}

// handleReady reports whether the backend answers the accounts list.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := map[string]string{}
	status, code := "ready", http.StatusOK

	if _, err := s.source.ListAccounts(ctx, api.ListOptions{}); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).Warn("Readiness check failed",
			log.NewFields().WithOperation(log.OpRead).WithError(err).ToSlice()...)
		checks["backend"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["backend"] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
