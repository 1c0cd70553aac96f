// Package tui is the terminal front-end of the dashboard. It drives the same
// accounts panel, transactions list and shell as the web server; fetches run
// as tea.Cmds and their results are applied in Update.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"finboard/internal/dashboard"
	"finboard/internal/log"
)

const panelWidth = 44

// Source is the backend the terminal dashboard reads.
type Source interface {
	dashboard.AccountsSource
	dashboard.TransactionsSource
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Select:  key.NewBinding(key.WithKeys("enter", " ")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right", "l")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	Tab1:    key.NewBinding(key.WithKeys("1")),
	Tab2:    key.NewBinding(key.WithKeys("2")),
	Tab3:    key.NewBinding(key.WithKeys("3")),
	Reload:  key.NewBinding(key.WithKeys("r")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Messages
type accountsLoadedMsg struct {
	seq int
	res dashboard.AccountsResult
}

type transactionsLoadedMsg struct {
	res dashboard.TransactionsResult
}

// Model is the Bubbletea model for the dashboard.
type Model struct {
	shell    *dashboard.Shell
	panel    *dashboard.AccountsPanel
	txList   *dashboard.TransactionsList
	ctx      context.Context
	logger   *log.Logger
	accounts list.Model
	content  viewport.Model

	// accountsSeq fences reloads the same way tickets fence transactions.
	accountsSeq int
	width       int
	height      int
}

// NewModel builds the dashboard model. ctx parents every fetch; cancelling
// it aborts whatever is in flight.
func NewModel(ctx context.Context, source Source, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentTUI)

	panel := dashboard.NewAccountsPanel(source, logger)
	txList := dashboard.NewTransactionsList(source, logger)

	l := list.New(nil, AccountItemDelegate{}, panelWidth, 0)
	l.Title = "Accounts"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	}

	return Model{
		shell:    dashboard.NewShell(ctx, panel, txList),
		panel:    panel,
		txList:   txList,
		ctx:      ctx,
		logger:   logger,
		accounts: l,
		content:  vp,
	}
}

// Init starts the accounts load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadAccountsCmd(), tea.EnterAltScreen)
}

// Commands
func (m Model) loadAccountsCmd() tea.Cmd {
	panel, ctx, seq := m.panel, m.ctx, m.accountsSeq
	return func() tea.Msg {
		return accountsLoadedMsg{seq: seq, res: panel.Fetch(ctx)}
	}
}

// fetchCmds turns queued transactions fetches into commands.
func (m Model) fetchCmds() tea.Cmd {
	fetches := m.shell.Drain()
	if len(fetches) == 0 {
		return nil
	}
	txList := m.txList
	cmds := make([]tea.Cmd, len(fetches))
	for i, f := range fetches {
		cmds[i] = func() tea.Msg {
			return transactionsLoadedMsg{res: txList.Fetch(f.Ctx, f.Ticket)}
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-6, 1)
		m.accounts.SetSize(panelWidth, max(bodyHeight-3, 1))
		m.content.Width = max(msg.Width-panelWidth-6, 10)
		m.content.Height = max(bodyHeight-2, 1)
		m.syncContent()
		return m, nil

	case accountsLoadedMsg:
		if msg.seq != m.accountsSeq {
			m.logger.Debug("Discarding superseded accounts response")
			return m, nil
		}
		m.panel.Apply(msg.res)
		return m, m.syncAccounts()

	case transactionsLoadedMsg:
		if m.txList.Apply(msg.res) {
			m.syncContent()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.txList.Close()
			return m, tea.Quit

		case key.Matches(msg, keys.Select):
			item, ok := m.accounts.SelectedItem().(AccountItem)
			if !ok {
				return m, nil
			}
			m.logger.Debug("Account selected",
				log.FieldOperation, log.OpSelect,
				log.FieldAccountID, item.Row.ID.String())
			m.panel.Select(item.Row.ID)
			m.syncContent()
			return m, tea.Batch(m.syncAccounts(), m.fetchCmds())

		case key.Matches(msg, keys.NextTab):
			m.setTab(m.tabOffset(1))
			return m, nil

		case key.Matches(msg, keys.PrevTab):
			m.setTab(m.tabOffset(-1))
			return m, nil

		case key.Matches(msg, keys.Tab1):
			m.setTab(dashboard.TabSavings)
			return m, nil

		case key.Matches(msg, keys.Tab2):
			m.setTab(dashboard.TabBudgets)
			return m, nil

		case key.Matches(msg, keys.Tab3):
			m.setTab(dashboard.TabInvestments)
			return m, nil

		case key.Matches(msg, keys.Reload):
			m.accountsSeq++
			m.panel.Reset()
			m.shell.Refresh()
			m.syncContent()
			return m, tea.Batch(m.syncAccounts(), m.loadAccountsCmd(), m.fetchCmds())

		case key.Matches(msg, keys.Up, keys.Down):
			var cmd tea.Cmd
			m.accounts, cmd = m.accounts.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) setTab(t dashboard.Tab) {
	m.logger.Debug("Tab changed", log.FieldTab, string(t))
	m.shell.SetTab(t)
	m.syncContent()
}

func (m Model) tabOffset(delta int) dashboard.Tab {
	n := len(dashboard.Tabs)
	for i, t := range dashboard.Tabs {
		if t == m.shell.Tab() {
			return dashboard.Tabs[((i+delta)%n+n)%n]
		}
	}
	return dashboard.TabSavings
}

// syncAccounts rebuilds the list items from the panel, keeping the cursor.
func (m *Model) syncAccounts() tea.Cmd {
	idx := m.accounts.Index()
	cmd := m.accounts.SetItems(accountItems(m.panel.View().Rows))
	if n := len(m.accounts.Items()); n > 0 {
		m.accounts.Select(min(idx, n-1))
	}
	return cmd
}

func (m *Model) syncContent() {
	if m.shell.Tab().Placeholder() {
		m.content.SetContent(mutedStyle.Render(m.shell.Tab().Title() + " is coming soon."))
		return
	}
	m.content.SetContent(TransactionsView(m.txList.View()))
}

// View renders the UI
func (m Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(dashboard.Title),
		TabBar(m.shell.TabViews()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Width(panelWidth).Render(m.panelView()),
		activeBoxStyle.Render(m.contentView()),
	)

	help := helpStyle.Render(
		FormatKey("↑/↓", "navigate") + " • " +
			FormatKey("enter", "select") + " • " +
			FormatKey("tab/1-3", "switch tab") + " • " +
			FormatKey("r", "reload") + " • " +
			FormatKey("q", "quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (m Model) panelView() string {
	v := m.panel.View()
	if v.Message != "" {
		style := mutedStyle
		if v.State == dashboard.PanelError {
			style = errorStyle
		}
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Accounts"), "", style.Render(v.Message))
	}

	out := m.accounts.View()
	if v.ShowNetWorth {
		out = lipgloss.JoinVertical(lipgloss.Left, out, "",
			headingStyle.Render("Net Worth")+"  "+v.NetWorth)
	}
	return out
}

func (m Model) contentView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render(m.shell.Tab().Title()),
		m.content.View(),
	)
}

// Run starts the terminal dashboard and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, source Source, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(ctx, source, logger), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
