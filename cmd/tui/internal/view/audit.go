package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocketbook/internal/reconcile"
)

const auditTimeout = time.Minute

// Auditor recomputes every wallet balance from its entries.
type Auditor interface {
	Run(ctx context.Context) (*reconcile.Report, error)
}

type AuditModel struct {
	CommonModel
	auditor Auditor

	table   table.Model
	report  *reconcile.Report
	running bool
	err     error
}

func NewAuditModel(auditor Auditor) AuditModel {
	return AuditModel{
		auditor: auditor,
		table: newTable([]table.Column{
			{Title: "Wallet", Width: 36},
			{Title: "Owner", Width: 44},
			{Title: "Stored", Width: 14},
			{Title: "Expected", Width: 14},
			{Title: "Diff", Width: 14},
		}),
		running: true,
	}
}

func (m AuditModel) Title() string     { return "Balance audit" }
func (m AuditModel) ShortHelp() string { return "Esc: back | r: run again" }

func (m AuditModel) Init() tea.Cmd {
	return m.runCmd()
}

func (m AuditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case auditDoneMsg:
		m.running = false
		m.report = msg.report
		m.err = msg.err
		m.refreshTable()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			if m.running {
				return m, nil
			}
			m.running = true
			return m, m.runCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m AuditModel) View() string {
	if m.running {
		return lipgloss.NewStyle().Padding(2).Render("Checking wallet balances...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	summary := okStyle(fmt.Sprintf("Checked %d wallets in %s, all balances match.", m.report.Checked, m.report.Took.Round(time.Millisecond)))
	if n := len(m.report.Drifts); n > 0 {
		summary = errorStyle(fmt.Sprintf("Checked %d wallets in %s, %d drifted.", m.report.Checked, m.report.Took.Round(time.Millisecond), n))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(summary),
		framed(m.table),
	))
}

func (m *AuditModel) refreshTable() {
	if m.report == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(m.report.Drifts))
	for _, d := range m.report.Drifts {
		rows = append(rows, table.Row{
			d.WalletID.String(),
			d.Owner,
			FormatAmount(d.Stored),
			FormatAmount(d.Expected),
			FormatAmount(d.Difference()),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type auditDoneMsg struct {
	report *reconcile.Report
	err    error
}

func (m AuditModel) runCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		report, err := m.auditor.Run(ctx)

		return auditDoneMsg{report: report, err: err}
	}
}
