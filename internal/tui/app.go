// internal/tui/app.go
//
// The operator console. It uses bubbletea's Elm architecture:
// Model (App) -> Update (messages) -> View (render). Two screens share
// the frame: the order monitor (polled, with the new-order modal) and
// the per-table billing screen (refreshed on demand). The Update loop
// is the single writer for all screen state; network work runs in
// tea.Cmd goroutines and re-enters as messages.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableside/internal/api"
	"tableside/internal/config"
	"tableside/internal/logbook"
	"tableside/internal/monitor"
)

// screen identifies which view owns the main panel.
type screen int

const (
	screenMonitor screen = iota
	screenBilling
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F97316")).
			MarginBottom(1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

type restaurantDetailsMsg struct {
	details api.Restaurant
	err     error
}

// App is the root model holding both screens and the shared chrome.
type App struct {
	cfg     *config.Config
	client  *api.Client
	book    *logbook.Logbook
	session *monitor.Session

	monitor *monitorView
	billing *billingView
	active  screen

	restaurant api.Restaurant
	hasDetails bool
	statusMsg  string

	width  int
	height int
}

// NewApp wires the console around an already-constructed client and
// monitoring session.
func NewApp(cfg *config.Config, client *api.Client, book *logbook.Logbook, session *monitor.Session) *App {
	a := &App{
		cfg:     cfg,
		client:  client,
		book:    book,
		session: session,
		active:  screenMonitor,
	}
	a.monitor = newMonitorView(a)
	a.billing = newBillingView(a)
	return a
}

// Init starts the poll loop and fetches the restaurant header.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.fetchDetails(), a.monitor.start())
}

// Update routes messages. Poll results belong to the monitor even
// while the billing screen is focused: arrivals keep queueing in the
// background.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case restaurantDetailsMsg:
		if msg.err != nil {
			a.book.Warn("restaurant details unavailable: %v", msg.err)
			return a, nil
		}
		a.restaurant = msg.details
		a.hasDetails = true
		return a, nil

	case pollTickMsg, ordersPolledMsg:
		return a, a.monitor.Update(msg)

	case billingOrdersMsg, tableClearedMsg:
		return a, a.billing.Update(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.activeView().Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.session.Close()
		return a, tea.Quit
	}

	// The new-order modal renders over either screen and captures all
	// keys, so acknowledgment works even while billing is focused.
	// Quitting or switching screens under it would drop an
	// unacknowledged arrival on the floor.
	if _, showing := a.session.Displaying(); showing {
		return a, a.monitor.Update(msg)
	}

	switch msg.String() {
	case "q":
		a.session.Close()
		return a, tea.Quit
	case "tab":
		if a.active == screenMonitor {
			a.active = screenBilling
			return a, a.billing.start()
		}
		a.active = screenMonitor
		return a, nil
	}
	return a, a.activeView().Update(msg)
}

func (a *App) activeView() interface{ Update(tea.Msg) tea.Cmd } {
	if a.active == screenBilling {
		return a.billing
	}
	return a.monitor
}

// View renders header, active screen, modal, log panel, and footer.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	sections := []string{headerStyle.Render(a.headerLine())}

	var content string
	if a.active == screenBilling {
		content = a.billing.View(width - 4)
	} else {
		content = a.monitor.View(width - 4)
	}
	sections = append(sections, boxStyle.Width(max(40, width-2)).Render(content))

	if modal := a.monitor.renderModal(width); modal != "" {
		sections = append(sections, modal)
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.footerLine()))
	return strings.Join(sections, "\n")
}

func (a *App) headerLine() string {
	name := "Connecting..."
	if a.hasDetails && a.restaurant.Name != "" {
		name = a.restaurant.Name
	}
	label := "ORDERS"
	if a.active == screenBilling {
		label = "BILLING"
	}
	return fmt.Sprintf("◈ TABLESIDE · %s · %s", name, label)
}

func (a *App) footerLine() string {
	hints := "tab → switch screen    r → refresh    q → quit"
	if _, showing := a.session.Displaying(); showing {
		hints = "enter → acknowledge order"
	} else if a.active == screenBilling {
		hints = "tab → orders    ↑/↓ → table    enter → items    c → clear table    r → refresh    q → quit"
	}
	if a.statusMsg != "" {
		return a.statusMsg + "    " + dimStyle.Render(hints)
	}
	return dimStyle.Render(hints)
}

func (a *App) renderLogPanel() string {
	lines := a.book.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := dimStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(head + "\n" + body)
}

func (a *App) fetchDetails() tea.Cmd {
	return func() tea.Msg {
		details, err := a.client.RestaurantDetails(context.Background())
		return restaurantDetailsMsg{details: details, err: err}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
