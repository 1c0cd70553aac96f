// Package dashboard holds the view models shared by the web and terminal
// front-ends: the accounts panel, the per-account transactions list and the
// shell that owns selection and the active tab.
//
// View models are not safe for concurrent use. Each one is owned by a single
// event loop (the TUI program) or a single request (the web handlers). Only
// Fetch methods may run elsewhere; they read the data source and nothing else.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"finboard/internal/api"
	"finboard/internal/core"
	"finboard/internal/log"
)

const (
	MsgAccountsLoading = "Loading accounts..."
	MsgAccountsFailed  = "Failed to load accounts. Please try again later."
)

// PanelState is the accounts panel lifecycle.
type PanelState int

const (
	PanelLoading PanelState = iota
	PanelSuccess
	PanelError
)

func (s PanelState) String() string {
	switch s {
	case PanelSuccess:
		return "success"
	case PanelError:
		return "error"
	}
	return "loading"
}

// AccountsSource lists the user's accounts.
type AccountsSource interface {
	ListAccounts(ctx context.Context, opts api.ListOptions) ([]core.Account, error)
}

// AccountsResult is the outcome of one accounts fetch.
type AccountsResult struct {
	Accounts []core.Account
	Err      error
}

// AccountsPanel lists accounts, totals net worth and reports selection to
// its owner. It highlights whatever id the owner hands back through
// SetSelected and never decides selection on its own.
type AccountsPanel struct {
	source   AccountsSource
	logger   *log.Logger
	state    PanelState
	accounts []core.Account
	netWorth decimal.Decimal
	selected core.ID
	onSelect func(core.ID)
}

// NewAccountsPanel returns a panel in the loading state.
func NewAccountsPanel(source AccountsSource, logger *log.Logger) *AccountsPanel {
	if logger == nil {
		logger = log.Discard()
	}
	return &AccountsPanel{
		source: source,
		logger: logger.WithComponent(log.ComponentDashboard),
		state:  PanelLoading,
	}
}

// Fetch queries the source. It does not touch panel state.
func (p *AccountsPanel) Fetch(ctx context.Context) AccountsResult {
	accounts, err := p.source.ListAccounts(ctx, api.ListOptions{})
	return AccountsResult{Accounts: accounts, Err: err}
}

// Apply moves the panel to success or error. On error no partial data is
// kept; the detail goes to the log only.
func (p *AccountsPanel) Apply(res AccountsResult) {
	if res.Err != nil {
		p.state = PanelError
		p.accounts = nil
		p.netWorth = decimal.Zero
		p.logger.Error("Failed to load accounts",
			log.NewFields().WithOperation(log.OpList).WithError(res.Err).ToSlice()...)
		return
	}
	p.state = PanelSuccess
	p.accounts = res.Accounts
	p.netWorth = core.NetWorth(res.Accounts)
	p.logger.Debug("Accounts loaded", log.FieldAccountCount, len(res.Accounts))
}

// Load fetches and applies in one step.
func (p *AccountsPanel) Load(ctx context.Context) {
	p.Apply(p.Fetch(ctx))
}

// Reset returns the panel to loading ahead of an explicit reload.
func (p *AccountsPanel) Reset() {
	p.state = PanelLoading
	p.accounts = nil
	p.netWorth = decimal.Zero
}

// SetOnSelect registers the owner's selection callback.
func (p *AccountsPanel) SetOnSelect(fn func(core.ID)) { p.onSelect = fn }

// Select reports a user's choice of account to the owner.
func (p *AccountsPanel) Select(id core.ID) {
	if p.onSelect != nil {
		p.onSelect(id)
	}
}

// SetSelected sets the highlighted account.
func (p *AccountsPanel) SetSelected(id core.ID) { p.selected = id }

func (p *AccountsPanel) Selected() core.ID         { return p.selected }
func (p *AccountsPanel) State() PanelState         { return p.state }
func (p *AccountsPanel) Accounts() []core.Account  { return p.accounts }
func (p *AccountsPanel) NetWorth() decimal.Decimal { return p.netWorth }

// AccountRow is one rendered account.
type AccountRow struct {
	ID       core.ID
	Name     string
	OrgName  string
	Masked   string // "xxxx1234"
	Balance  string
	Negative bool
	Selected bool
}

// PanelView is what a front-end renders for the panel.
type PanelView struct {
	State        PanelState
	Message      string
	Rows         []AccountRow
	NetWorth     string
	ShowNetWorth bool
}

// View renders the current state.
func (p *AccountsPanel) View() PanelView {
	switch p.state {
	case PanelLoading:
		return PanelView{State: p.state, Message: MsgAccountsLoading}
	case PanelError:
		return PanelView{State: p.state, Message: MsgAccountsFailed}
	}

	rows := make([]AccountRow, 0, len(p.accounts))
	for _, a := range p.accounts {
		bal := a.BalanceOrZero()
		rows = append(rows, AccountRow{
			ID:       a.ID,
			Name:     a.Name,
			OrgName:  a.OrgName,
			Masked:   a.MaskedNumber(),
			Balance:  core.FormatMoney(bal, a.CurrencyCode()),
			Negative: bal.IsNegative(),
			Selected: p.selected != "" && a.ID == p.selected,
		})
	}
	return PanelView{
		State:        p.state,
		Rows:         rows,
		NetWorth:     core.FormatMoney(p.netWorth, core.DefaultCurrency),
		ShowNetWorth: true,
	}
}
