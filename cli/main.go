package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

var rangeKeys = map[string]string{
	"w": "week",
	"m": "month",
	"y": "year",
	"a": "all",
}

// Model defines the application state
type Model struct {
	daily     table.Model
	spinner   spinner.Model
	client    *ApiClient
	overview  *Overview
	rangeKind string
	loading   bool
	status    string
	error     string
}

func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Items", Width: 8},
		{Title: "Orders", Width: 8},
		{Title: "Revenue", Width: 14},
	}
	daily := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return Model{
		daily:     daily,
		spinner:   s,
		client:    NewApiClient(),
		rangeKind: "week",
		loading:   true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchSales(m.client, m.rangeKind))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "w", "m", "y", "a":
			m.rangeKind = rangeKeys[key]
			m.loading = true
			return m, fetchSales(m.client, m.rangeKind)
		case "r":
			m.loading = true
			return m, reloadSales(m.client, m.rangeKind)
		}
	case salesMsg:
		m.loading = false
		m.error = ""
		m.overview = msg.overview
		m.daily.SetRows(toRows(msg.overview))
		return m, nil
	case confirmMsg:
		m.status = msg.message
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.daily, cmd = m.daily.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	view := titleStyle.Render("Restaurant Sales Dashboard") + " " + infoStyle.Render(m.rangeKind)
	if m.client.UseMock {
		view += " " + errorStyle.Render("mock data")
	}
	view += "\n\n"

	if m.loading {
		view += m.spinner.View() + " Loading sales...\n\n"
	}
	if m.overview != nil {
		view += summaryView(m.overview) + "\n"
		view += m.daily.View() + "\n"
	}
	if m.status != "" {
		view += successStyle.Render(m.status) + "\n"
	}
	if m.error != "" {
		view += errorStyle.Render(m.error) + "\n"
	}

	view += "\n'w' week  'm' month  'y' year  'a' all  'r' reload  'q' quit"
	return docStyle.Render(view)
}

// Custom message types for the tea.Model
type salesMsg struct {
	overview *Overview
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

// fetchSales retrieves the overview for a range
func fetchSales(client *ApiClient, rangeKind string) tea.Cmd {
	return func() tea.Msg {
		overview, err := client.GetSales(rangeKind)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching sales: %v", err)}
		}
		return salesMsg{overview: overview}
	}
}

// reloadSales re-reads the feed on the server and then refreshes the view
func reloadSales(client *ApiClient, rangeKind string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := client.ReloadSales(); err != nil {
				return errorMsg{err: fmt.Sprintf("Error reloading sales: %v", err)}
			}
			return confirmMsg{message: "Sales feed reloaded"}
		},
		fetchSales(client, rangeKind),
	)
}

func toRows(overview *Overview) []table.Row {
	rows := make([]table.Row, len(overview.Daily))
	for i, day := range overview.Daily {
		rows[i] = table.Row{
			day.Date,
			fmt.Sprintf("%d", day.Sales),
			fmt.Sprintf("%d", day.Orders),
			fmt.Sprintf("%.2f", float64(day.Revenue)),
		}
	}
	return rows
}

func summaryView(overview *Overview) string {
	s := overview.Summary
	view := fmt.Sprintf("Orders: %d   Revenue: %.2f   Avg order: %.2f   Peak hour: %s\n",
		s.TotalOrders, float64(s.TotalRevenue), float64(s.AverageOrderValue), s.PeakHour)
	if overview.Start != "" {
		view += fmt.Sprintf("From %s to %s\n", overview.Start, overview.End)
	}
	return view
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
