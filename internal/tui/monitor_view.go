// internal/tui/monitor_view.go
//
// The order-monitoring screen: a fixed-interval poll of the order
// snapshot with a modal that presents detected arrivals one at a time.
// The tick chain is tick -> poll command -> ordersPolledMsg ->
// schedule next tick, so a slow fetch naturally stretches the cycle
// and a skipped (overlapping) poll just waits for the next tick.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableside/internal/monitor"
	"tableside/internal/order"
)

const maxOrderCards = 12

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(0, 1)
	tableTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#22C55E"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#F7B801")).
			Padding(1, 2)
	totalStyle = lipgloss.NewStyle().Bold(true)
)

type pollTickMsg struct{}

type ordersPolledMsg struct {
	orders []order.Order
	err    error
	tick   bool // tick-origin poll; its result reschedules the chain
}

type monitorView struct {
	app      *App
	orders   []order.Order // newest-first for display
	fetching bool
	spin     spinner.Model
	lastErr  string
}

func newMonitorView(app *App) *monitorView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &monitorView{app: app, spin: sp}
}

// start kicks off the first poll immediately; subsequent polls ride
// the tick chain.
func (v *monitorView) start() tea.Cmd {
	v.fetching = true
	return tea.Batch(v.spin.Tick, v.pollCmd(true))
}

// pollCmd runs one fetch cycle. tick marks the chain-driving poll; a
// manual refresh passes false so its result never spawns a second
// chain.
func (v *monitorView) pollCmd(tick bool) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := v.app.session.Poll(context.Background())
		return ordersPolledMsg{orders: snapshot, err: err, tick: tick}
	}
}

func (v *monitorView) scheduleTick() tea.Cmd {
	return tea.Tick(v.app.cfg.PollInterval(), func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (v *monitorView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case pollTickMsg:
		v.fetching = true
		return v.pollCmd(true)

	case ordersPolledMsg:
		return v.handlePolled(msg)

	case spinner.TickMsg:
		if !v.fetching {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return nil
}

func (v *monitorView) handlePolled(msg ordersPolledMsg) tea.Cmd {
	switch {
	case msg.err == nil:
		v.fetching = false
		v.lastErr = ""
		v.orders = order.SortNewestFirst(msg.orders)
		v.crossCheckTotals(msg.orders)
	case errors.Is(msg.err, monitor.ErrPollInProgress):
		// Overlap policy: this cycle was skipped, keep ticking. The
		// cycle that is actually in flight clears the indicator when
		// its own result lands.
	case errors.Is(msg.err, monitor.ErrClosed):
		v.fetching = false
		return nil
	default:
		// Transient notice; the last good snapshot stays on screen
		// and the loop continues on the next tick.
		v.fetching = false
		v.lastErr = msg.err.Error()
		v.app.book.Error("order poll failed: %v", msg.err)
	}
	if !msg.tick {
		return nil
	}
	return v.scheduleTick()
}

// crossCheckTotals logs orders whose server-reported total disagrees
// with the recomputed one. Rendering always uses the recomputed value.
func (v *monitorView) crossCheckTotals(orders []order.Order) {
	for _, o := range orders {
		if !o.TotalMatchesServer() {
			v.app.book.Warn("order %s total mismatch: server %.2f, recomputed %s",
				o.ID, o.Total, o.ComputedTotal().StringFixed(2))
		}
	}
}

func (v *monitorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if _, showing := v.app.session.Displaying(); showing {
		switch msg.String() {
		case "enter", "a":
			v.app.session.Acknowledge()
		}
		return nil
	}
	switch msg.String() {
	case "r":
		if v.fetching {
			return nil
		}
		v.app.statusMsg = "Refreshing orders..."
		v.fetching = true
		return tea.Batch(v.spin.Tick, v.pollCmd(false))
	}
	return nil
}

func (v *monitorView) View(width int) string {
	title := fmt.Sprintf("Active Orders (%d)", len(v.orders))
	if v.fetching {
		title = v.spin.View() + " " + title
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}

	if v.lastErr != "" {
		lines = append(lines, noticeStyle.Render("⚠ "+v.lastErr))
	}
	if pending := v.app.session.Pending(); pending > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d more new order(s) waiting", pending)))
	}

	if len(v.orders) == 0 {
		lines = append(lines, dimStyle.Render("No orders yet."))
		return strings.Join(lines, "\n")
	}
	shown := v.orders
	if len(shown) > maxOrderCards {
		shown = shown[:maxOrderCards]
	}
	for _, o := range shown {
		lines = append(lines, v.renderCard(o, width))
	}
	if len(v.orders) > maxOrderCards {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("... and %d older order(s)", len(v.orders)-maxOrderCards)))
	}
	return strings.Join(lines, "\n")
}

func (v *monitorView) renderCard(o order.Order, width int) string {
	currency := v.app.cfg.Display.Currency
	head := fmt.Sprintf("%s  %s",
		tableTagStyle.Render("Table "+o.TableNumber.String()),
		dimStyle.Render(o.CreatedAt.Local().Format("15:04:05")),
	)
	var items []string
	for _, li := range o.Items {
		items = append(items, fmt.Sprintf("• %s × %d", li.DisplayName(), li.Quantity))
	}
	total := totalStyle.Render("Total: " + order.FormatAmount(currency, o.ComputedTotal()))
	body := strings.Join(append([]string{head}, append(items, total)...), "\n")
	return cardStyle.Width(max(30, width-4)).Render(body)
}

// renderModal shows the currently displayed arrival, if any. The
// sequencer guarantees at most one.
func (v *monitorView) renderModal(width int) string {
	entry, showing := v.app.session.Displaying()
	if !showing {
		return ""
	}
	currency := v.app.cfg.Display.Currency
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801")).Render("🔔 NEW ORDER"),
		"Table " + entry.TableNumber.String(),
	}
	for _, li := range entry.Items {
		lines = append(lines, fmt.Sprintf("%s × %d = %s",
			li.DisplayName(), li.Quantity, order.FormatAmount(currency, li.Subtotal())))
	}
	lines = append(lines,
		totalStyle.Render("Total: "+order.FormatAmount(currency, entry.ComputedTotal())),
		dimStyle.Render("enter → acknowledge"),
	)
	return modalStyle.Width(max(40, width/2)).Render(strings.Join(lines, "\n"))
}
