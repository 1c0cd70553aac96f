package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/api"
	"finboard/internal/core"
	"finboard/internal/dashboard"
)

type fakeSource struct {
	mu          sync.Mutex
	accounts    []core.Account
	accountsErr error
	txs         map[string][]core.Transaction
	txCalls     []string
}

func (f *fakeSource) ListAccounts(ctx context.Context, _ api.ListOptions) ([]core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts, f.accountsErr
}

func (f *fakeSource) ListAccountTransactions(ctx context.Context, id string) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls = append(f.txCalls, id)
	return f.txs[id], nil
}

func newFakeSource() *fakeSource {
	bal := decimal.RequireFromString("1500")
	debt := decimal.RequireFromString("-200")
	return &fakeSource{
		accounts: []core.Account{
			{ID: "ACT-1", Name: "Checking", OrgName: "Bank", Balance: &bal, Last4: "1234"},
			{ID: "ACT-2", Name: "Card", OrgName: "Card Co", Balance: &debt},
		},
		txs: map[string][]core.Transaction{
			"ACT-1": {{ID: "T1", AccountID: "ACT-1", PostedDate: "2024-03-01", Amount: decimal.RequireFromString("-12.5"), Description: "Coffee beans"}},
			"ACT-2": {{ID: "T2", AccountID: "ACT-2", PostedDate: "2024-03-02", Amount: decimal.RequireFromString("80"), Description: "Card payment"}},
		},
	}
}

// run executes cmd and flattens batches into the messages they produce.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func feed(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = update(t, m, msg)
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, src *fakeSource) Model {
	t.Helper()
	m := NewModel(context.Background(), src, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return feed(t, m, run(m.Init()))
}

func TestInitialLoad(t *testing.T) {
	src := newFakeSource()
	m := NewModel(context.Background(), src, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	assert.Contains(t, m.View(), dashboard.MsgAccountsLoading)

	m = feed(t, m, run(m.Init()))
	assert.Equal(t, dashboard.PanelSuccess, m.panel.State())

	view := m.View()
	assert.Contains(t, view, "Checking")
	assert.Contains(t, view, "Net Worth")
	assert.Contains(t, view, "$1,300.00")
	assert.Contains(t, view, dashboard.MsgSelectAccount)
	assert.Empty(t, src.txCalls)
}

func TestAccountsFailure(t *testing.T) {
	src := newFakeSource()
	src.accountsErr = errors.New("boom")
	m := loadedModel(t, src)

	assert.Equal(t, dashboard.PanelError, m.panel.State())
	assert.NotContains(t, m.View(), "Net Worth")
}

func TestSelectAccountLoadsTransactions(t *testing.T) {
	src := newFakeSource()
	m := loadedModel(t, src)

	m, cmd := update(t, m, keyPress("enter"))
	assert.Equal(t, core.ID("ACT-1"), m.shell.SelectedAccount())
	assert.Equal(t, core.ID("ACT-1"), m.panel.Selected())
	assert.Equal(t, dashboard.ListLoading, m.txList.State())

	m = feed(t, m, run(cmd))
	assert.Equal(t, dashboard.ListReady, m.txList.State())
	assert.Contains(t, m.View(), "Coffee beans")
	assert.Equal(t, []string{"ACT-1"}, src.txCalls)

	// reselecting the same account does not refetch
	m, cmd = update(t, m, keyPress("enter"))
	feed(t, m, run(cmd))
	assert.Equal(t, []string{"ACT-1"}, src.txCalls)
}

func TestLatestSelectionWins(t *testing.T) {
	src := newFakeSource()
	m := loadedModel(t, src)

	m, first := update(t, m, keyPress("enter"))
	m, _ = update(t, m, keyPress("down"))
	m, second := update(t, m, keyPress("enter"))
	require.Equal(t, core.ID("ACT-2"), m.shell.SelectedAccount())

	// the newer response lands first, the older one afterwards
	m = feed(t, m, run(second))
	m = feed(t, m, run(first))

	assert.Equal(t, core.ID("ACT-2"), m.txList.AccountID())
	require.Len(t, m.txList.Transactions(), 1)
	assert.Equal(t, "Card payment", m.txList.Transactions()[0].Description)
	assert.NotContains(t, m.View(), "Coffee beans")
}

func TestTabSwitching(t *testing.T) {
	m := loadedModel(t, newFakeSource())
	assert.Equal(t, dashboard.TabSavings, m.shell.Tab())

	m, _ = update(t, m, keyPress("2"))
	assert.Equal(t, dashboard.TabBudgets, m.shell.Tab())
	assert.Contains(t, m.View(), "Budgets is coming soon.")

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, dashboard.TabInvestments, m.shell.Tab())

	m, _ = update(t, m, keyPress("tab"))
	assert.Equal(t, dashboard.TabSavings, m.shell.Tab())

	m, _ = update(t, m, keyPress("shift+tab"))
	assert.Equal(t, dashboard.TabInvestments, m.shell.Tab())

	// selection survives tab changes
	m, _ = update(t, m, keyPress("1"))
	m, cmd := update(t, m, keyPress("enter"))
	m = feed(t, m, run(cmd))
	m, _ = update(t, m, keyPress("3"))
	m, _ = update(t, m, keyPress("1"))
	assert.Equal(t, core.ID("ACT-1"), m.shell.SelectedAccount())
	assert.Contains(t, m.View(), "Coffee beans")
}

func TestReloadDropsSupersededAccounts(t *testing.T) {
	src := newFakeSource()
	m := NewModel(context.Background(), src, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	initial := run(m.Init())

	m, cmd := update(t, m, keyPress("r"))
	assert.Equal(t, dashboard.PanelLoading, m.panel.State())

	m = feed(t, m, initial)
	assert.Equal(t, dashboard.PanelLoading, m.panel.State())

	m = feed(t, m, run(cmd))
	assert.Equal(t, dashboard.PanelSuccess, m.panel.State())
}

func TestReloadRefetchesSelectedAccount(t *testing.T) {
	src := newFakeSource()
	m := loadedModel(t, src)

	m, cmd := update(t, m, keyPress("enter"))
	m = feed(t, m, run(cmd))

	m, cmd = update(t, m, keyPress("r"))
	m = feed(t, m, run(cmd))
	assert.Equal(t, []string{"ACT-1", "ACT-1"}, src.txCalls)
	assert.Equal(t, dashboard.ListReady, m.txList.State())
	assert.Equal(t, core.ID("ACT-1"), m.panel.Selected())
}

func TestQuit(t *testing.T) {
	m := loadedModel(t, newFakeSource())
	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
