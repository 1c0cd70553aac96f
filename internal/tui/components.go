package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"finboard/internal/dashboard"
)

// AccountItem is one account in the panel list.
type AccountItem struct {
	Row dashboard.AccountRow
}

func (i AccountItem) FilterValue() string { return i.Row.Name }
func (i AccountItem) Title() string       { return i.Row.Name }
func (i AccountItem) Description() string {
	meta := i.Row.OrgName
	if i.Row.Masked != "" {
		meta = strings.TrimSpace(meta + " (" + i.Row.Masked + ")")
	}
	return meta
}

// AccountItemDelegate renders accounts over two lines with the balance on
// the first.
type AccountItemDelegate struct{}

func (d AccountItemDelegate) Height() int                             { return 2 }
func (d AccountItemDelegate) Spacing() int                            { return 1 }
func (d AccountItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d AccountItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(AccountItem)
	if !ok {
		return
	}

	marker := "  "
	if i.Row.Selected {
		marker = "● "
	}
	balance := i.Row.Balance
	if i.Row.Negative {
		balance = debitStyle.Render(balance)
	}

	style := itemStyle
	if index == m.Index() {
		style = cursorItemStyle
		if !i.Row.Selected {
			marker = "▸ "
		}
	}

	_, _ = fmt.Fprint(w, style.Render(marker+i.Title())+"  "+balance+"\n  "+mutedStyle.Render(i.Description()))
}

func accountItems(rows []dashboard.AccountRow) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = AccountItem{Row: r}
	}
	return items
}

// TabBar renders the tab headers.
func TabBar(tabs []dashboard.TabView) string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title)
		if t.Active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// TransactionsView renders the list body for a viewport.
func TransactionsView(v dashboard.ListView) string {
	if v.Message != "" {
		if v.State == dashboard.ListFailed {
			return errorStyle.Render(v.Message)
		}
		return mutedStyle.Render(v.Message)
	}

	var b strings.Builder
	for i, r := range v.Rows {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Description)
		b.WriteString("  ")
		b.WriteString(FormatAmount(r.Amount, r.Debit))
		if r.Pending {
			b.WriteString("  ")
			b.WriteString(warningStyle.Render("Pending"))
		}
		b.WriteString("\n")

		meta := []string{r.Date}
		if r.Payee != "" {
			meta = append(meta, r.Payee)
		}
		if r.Memo != "" {
			meta = append(meta, r.Memo)
		}
		b.WriteString(mutedStyle.Render(strings.Join(meta, " · ")))
	}
	return b.String()
}
