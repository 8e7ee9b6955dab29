package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
)

type Reports interface {
	MonthlySummary(ctx context.Context, actor uuid.UUID, owner *ledger.Owner, months int) ([]report.Month, error)
	Overview(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) (*report.Overview, error)
}

var summaryWindows = []int{3, 6, 12}

type SummaryModel struct {
	CommonModel
	reports Reports
	actor   uuid.UUID

	months     table.Model
	categories table.Model
	windowIdx  int
	overview   *report.Overview

	loading bool
	err     error
}

func NewSummaryModel(reports Reports, actor uuid.UUID) SummaryModel {
	categories := newTable([]table.Column{
		{Title: "Category", Width: 24},
		{Title: "Spent", Width: 16},
		{Title: "%", Width: 5},
	})
	categories.Blur()

	return SummaryModel{
		reports: reports,
		actor:   actor,
		months: newTable([]table.Column{
			{Title: "Month", Width: 10},
			{Title: "Income", Width: 16},
			{Title: "Expense", Width: 16},
			{Title: "Net", Width: 16},
		}),
		categories: categories,
		windowIdx:  1,
		loading:    true,
	}
}

func (m SummaryModel) Title() string     { return "Monthly summary" }
func (m SummaryModel) ShortHelp() string { return "Esc: back | m: months window | r: refresh" }

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.overview = msg.overview
		m.refreshTables(msg.months)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "m":
			m.windowIdx = (m.windowIdx + 1) % len(summaryWindows)
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.months, cmd = m.months.Update(msg)
	return m, cmd
}

func (m SummaryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("[m] Window: %s", activeStyle(fmt.Sprintf("last %d months", summaryWindows[m.windowIdx])))
	if o := m.overview; o != nil {
		header += fmt.Sprintf("\nBalance: %s | Income: %s | Expense: %s | Net: %s",
			FormatAmount(o.WalletBalance), FormatAmount(o.Income), FormatAmount(o.Expense), FormatAmount(o.Net))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, framed(m.months), " ", framed(m.categories)),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SummaryModel) refreshTables(months []report.Month) {
	rows := make([]table.Row, 0, len(months))
	for _, mo := range months {
		rows = append(rows, table.Row{
			mo.Month,
			FormatAmount(mo.Income),
			FormatAmount(mo.Expense),
			FormatAmount(mo.Net),
		})
	}
	m.months.SetRows(rows)

	var shares []table.Row
	if m.overview != nil {
		for _, c := range m.overview.Categories {
			shares = append(shares, table.Row{c.Name, FormatAmount(c.Amount), fmt.Sprintf("%d", c.Percent)})
		}
	}
	m.categories.SetRows(shares)
}

// Messages

type loadSummaryMsg struct {
	months   []report.Month
	overview *report.Overview
	err      error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	window := summaryWindows[m.windowIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		months, err := m.reports.MonthlySummary(ctx, m.actor, nil, window)
		if err != nil {
			return loadSummaryMsg{err: err}
		}

		overview, err := m.reports.Overview(ctx, m.actor, nil)
		if err != nil {
			return loadSummaryMsg{err: err}
		}

		return loadSummaryMsg{months: months, overview: overview}
	}
}
