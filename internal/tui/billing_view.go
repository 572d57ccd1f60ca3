// internal/tui/billing_view.go
//
// The per-table billing screen. It owns its own snapshot, fetched on
// entry and on demand, and folds it into table aggregates on every
// refresh — aggregates have no life between fetches. Clearing a table
// goes through the backend first; only a confirmed success triggers
// the re-fetch that makes the table disappear.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableside/internal/api"
	"tableside/internal/billing"
	"tableside/internal/order"
)

var (
	selectedTableStyle = lipgloss.NewStyle().
				Bold(true).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#5B8DEF")).
				Padding(0, 1)
	tableStyle = lipgloss.NewStyle().Padding(0, 1)
	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(1, 2)
)

type billingOrdersMsg struct {
	orders []order.Order
	err    error
}

type tableClearedMsg struct {
	table string
	err   error
}

type billingView struct {
	app        *App
	aggregates []billing.TableAggregate
	selection  int
	expanded   bool
	confirm    string // table awaiting clear confirmation, "" when none
	fetching   bool
	lastErr    string
}

func newBillingView(app *App) *billingView {
	return &billingView{app: app}
}

// start refreshes the billing snapshot when the screen gains focus.
func (v *billingView) start() tea.Cmd {
	v.fetching = true
	return v.refreshCmd()
}

func (v *billingView) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := v.app.client.Orders(context.Background())
		return billingOrdersMsg{orders: snapshot, err: err}
	}
}

func (v *billingView) clearCmd(table string) tea.Cmd {
	return func() tea.Msg {
		err := v.app.client.ClearTable(context.Background(), table)
		return tableClearedMsg{table: table, err: err}
	}
}

func (v *billingView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case billingOrdersMsg:
		v.fetching = false
		if msg.err != nil {
			// Previous aggregates stay on screen untouched.
			v.lastErr = msg.err.Error()
			v.app.book.Error("billing refresh failed: %v", msg.err)
			return nil
		}
		v.lastErr = ""
		v.aggregates = billing.GroupByTable(msg.orders)
		if v.selection >= len(v.aggregates) {
			v.selection = max(0, len(v.aggregates)-1)
		}
		return nil

	case tableClearedMsg:
		return v.handleCleared(msg)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *billingView) handleCleared(msg tableClearedMsg) tea.Cmd {
	if msg.err != nil {
		var rejection *api.RejectionError
		switch {
		case errors.As(msg.err, &rejection):
			v.lastErr = fmt.Sprintf("table %s not cleared: %s", msg.table, rejection.Reason)
		case errors.Is(msg.err, api.ErrUnavailable):
			v.lastErr = fmt.Sprintf("table %s not cleared: backend unavailable", msg.table)
		default:
			v.lastErr = msg.err.Error()
		}
		v.app.book.Error("clear table %s failed: %v", msg.table, msg.err)
		return nil
	}
	v.lastErr = ""
	v.app.statusMsg = fmt.Sprintf("Table %s cleared", msg.table)
	v.app.book.Info("table %s cleared", msg.table)
	// Success invalidates the aggregate; re-fetch immediately so the
	// table vanishes from the output.
	v.fetching = true
	return v.refreshCmd()
}

func (v *billingView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.confirm != "" {
		switch msg.String() {
		case "y", "enter":
			table := v.confirm
			v.confirm = ""
			v.app.statusMsg = fmt.Sprintf("Clearing table %s...", table)
			return v.clearCmd(table)
		case "n", "esc":
			v.confirm = ""
		}
		return nil
	}

	switch msg.String() {
	case "r":
		if v.fetching {
			return nil
		}
		v.fetching = true
		return v.refreshCmd()
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "down", "j":
		if v.selection < len(v.aggregates)-1 {
			v.selection++
		}
	case "enter":
		v.expanded = !v.expanded
	case "c":
		if v.selection < len(v.aggregates) {
			v.confirm = v.aggregates[v.selection].Table.String()
		}
	}
	return nil
}

func (v *billingView) View(width int) string {
	title := "Billing by Table"
	if v.fetching {
		title += " · refreshing..."
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}
	if v.lastErr != "" {
		lines = append(lines, noticeStyle.Render("⚠ "+v.lastErr))
	}
	if v.confirm != "" {
		lines = append(lines, confirmStyle.Render(
			fmt.Sprintf("Clear table %s?\n\ny → clear    n → cancel", v.confirm)))
	}
	if len(v.aggregates) == 0 {
		lines = append(lines, dimStyle.Render("No open tables."))
		return strings.Join(lines, "\n")
	}
	for i, agg := range v.aggregates {
		lines = append(lines, v.renderTable(agg, i == v.selection, width))
	}
	return strings.Join(lines, "\n")
}

func (v *billingView) renderTable(agg billing.TableAggregate, selected bool, width int) string {
	currency := v.app.cfg.Display.Currency
	head := fmt.Sprintf("%s · %d order(s) · %s",
		tableTagStyle.Render("Table "+agg.Table.String()),
		len(agg.Orders),
		totalStyle.Render(order.FormatAmount(currency, agg.Total)),
	)
	rows := []string{head}
	if selected && v.expanded {
		for _, item := range billing.GroupItems(agg.Orders) {
			rows = append(rows, fmt.Sprintf("  %s × %d = %s",
				item.Name, item.Quantity, order.FormatAmount(currency, item.Subtotal)))
		}
	}
	style := tableStyle
	if selected {
		style = selectedTableStyle
	}
	return style.Width(max(30, width-4)).Render(strings.Join(rows, "\n"))
}
