package dashboard

import (
	"context"
	"strings"

	"finboard/internal/core"
)

const Title = "Personal Finance Dashboard"

// Tab is a top-level dashboard section.
type Tab string

const (
	TabSavings     Tab = "savings"
	TabBudgets     Tab = "budgets"
	TabInvestments Tab = "investments"
)

// Tabs lists the sections in display order.
var Tabs = []Tab{TabSavings, TabBudgets, TabInvestments}

// ParseTab maps a query value to a tab. Unknown values yield the default.
func ParseTab(s string) (Tab, bool) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, true
		}
	}
	return TabSavings, false
}

// Title is the tab's display name.
func (t Tab) Title() string {
	switch t {
	case TabBudgets:
		return "Budgets"
	case TabInvestments:
		return "Investments"
	}
	return "Savings"
}

// Placeholder reports whether the tab has no content yet.
func (t Tab) Placeholder() bool { return t != TabSavings }

// Fetch is a transactions request the owner must run and hand back to
// TransactionsList.Apply.
type Fetch struct {
	Ctx    context.Context
	Ticket Ticket
}

// Shell owns the selected account and the active tab. Selection reported by
// the panel flows through here before reaching the panel highlight and the
// transactions list.
type Shell struct {
	ctx      context.Context
	panel    *AccountsPanel
	list     *TransactionsList
	tab      Tab
	selected core.ID
	pending  []Fetch
}

// NewShell wires panel selection to the list. ctx parents every
// transactions fetch the shell starts.
func NewShell(ctx context.Context, panel *AccountsPanel, list *TransactionsList) *Shell {
	s := &Shell{
		ctx:   ctx,
		panel: panel,
		list:  list,
		tab:   TabSavings,
	}
	panel.SetOnSelect(s.SelectAccount)
	return s
}

// SelectAccount makes id the selected account. An empty id clears the
// selection. A change queues a transactions fetch; see Drain.
func (s *Shell) SelectAccount(id core.ID) {
	s.selected = id
	s.panel.SetSelected(id)
	if ctx, t, ok := s.list.Begin(s.ctx, id); ok {
		s.pending = append(s.pending, Fetch{Ctx: ctx, Ticket: t})
	}
}

// Refresh queues a re-fetch of the selected account's transactions.
func (s *Shell) Refresh() {
	if ctx, t, ok := s.list.Refresh(s.ctx); ok {
		s.pending = append(s.pending, Fetch{Ctx: ctx, Ticket: t})
	}
}

// Drain hands over the queued fetches. Only the last one can still be
// current; earlier ones are already cancelled.
func (s *Shell) Drain() []Fetch {
	out := s.pending
	s.pending = nil
	return out
}

// Settle runs the queued fetches synchronously.
func (s *Shell) Settle() {
	for _, f := range s.Drain() {
		s.list.Apply(s.list.Fetch(f.Ctx, f.Ticket))
	}
}

// SetTab switches sections. The selection is kept.
func (s *Shell) SetTab(t Tab) { s.tab = t }

func (s *Shell) Tab() Tab                        { return s.tab }
func (s *Shell) SelectedAccount() core.ID        { return s.selected }
func (s *Shell) Panel() *AccountsPanel           { return s.panel }
func (s *Shell) Transactions() *TransactionsList { return s.list }

// TabView describes one tab header.
type TabView struct {
	Tab    Tab
	Title  string
	Active bool
}

// TabViews renders the tab bar.
func (s *Shell) TabViews() []TabView {
	out := make([]TabView, len(Tabs))
	for i, t := range Tabs {
		out[i] = TabView{Tab: t, Title: t.Title(), Active: t == s.tab}
	}
	return out
}
