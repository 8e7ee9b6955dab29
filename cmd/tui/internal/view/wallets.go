package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// Wallets is the slice of the ledger the wallet screen uses.
type Wallets interface {
	ListWallets(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) ([]*ledger.Wallet, error)
	CreateEntry(ctx context.Context, actor uuid.UUID, kind ledger.Kind, params ledger.CreateEntryParams) (*ledger.Entry, error)
}

type walletsState int

const (
	walletsStateBrowse walletsState = iota
	walletsStateEntry
)

type WalletsModel struct {
	CommonModel
	ledger Wallets
	actor  uuid.UUID

	state   walletsState
	table   table.Model
	wallets []*ledger.Wallet
	form    *huh.Form
	kind    ledger.Kind
	saving  bool

	loading bool
	err     error
	status  string
}

func NewWalletsModel(l Wallets, actor uuid.UUID) WalletsModel {
	return WalletsModel{
		ledger: l,
		actor:  actor,
		table: newTable([]table.Column{
			{Title: "Owner", Width: 44},
			{Title: "Wallet", Width: 24},
			{Title: "Balance", Width: 16},
		}),
		loading: true,
	}
}

func (m WalletsModel) Title() string { return "Wallets" }
func (m WalletsModel) ShortHelp() string {
	if m.state == walletsStateEntry {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | e: add expense | i: add income | r: refresh"
}

func (m WalletsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m WalletsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadWalletsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.wallets = msg.wallets
		m.refreshTable()
		return m, nil

	case entrySavedMsg:
		m.saving = false
		m.state = walletsStateBrowse
		m.form = nil
		m.table.Focus()
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s of %s.", msg.entry.Kind, FormatAmount(msg.entry.Amount))
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == walletsStateEntry {
		return m.updateEntry(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEntryMode(ledger.KindExpense)
		case "i":
			return m.enterEntryMode(ledger.KindIncome)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m WalletsModel) enterEntryMode(kind ledger.Kind) (tea.Model, tea.Cmd) {
	if m.selected() == nil {
		return m, nil
	}

	m.kind = kind
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("amount must be a positive number")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = walletsStateEntry
	m.table.Blur()
	return m, m.form.Init()
}

func (m WalletsModel) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = walletsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.saving {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

func (m WalletsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading wallets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	total := decimal.Zero
	for _, w := range m.wallets {
		if _, ok := w.Owner.User(); ok {
			total = total.Add(w.Balance)
		}
	}

	header := fmt.Sprintf("Personal total: %s", activeStyle(FormatAmount(total)))
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		framed(m.table),
	)

	if m.state == walletsStateEntry && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("New %s in %s\n\n%s", m.kind, m.selected().Name, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m WalletsModel) selected() *ledger.Wallet {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.wallets) {
		return nil
	}

	return m.wallets[idx]
}

func (m *WalletsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.wallets))
	for _, w := range m.wallets {
		rows = append(rows, table.Row{
			w.Owner.String(),
			w.Name,
			FormatAmount(w.Balance),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadWalletsMsg struct {
	wallets []*ledger.Wallet
	err     error
}

type entrySavedMsg struct {
	entry *ledger.Entry
	err   error
}

func (m WalletsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		wallets, err := m.ledger.ListWallets(ctx, m.actor, nil)

		return loadWalletsMsg{wallets: wallets, err: err}
	}
}

func (m WalletsModel) saveCmd() tea.Cmd {
	w := m.selected()
	kind := m.kind
	amount, _ := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))
	params := ledger.CreateEntryParams{
		Owner:       w.Owner,
		WalletID:    &w.ID,
		Amount:      amount,
		Date:        time.Now(),
		Description: strings.TrimSpace(m.form.GetString("description")),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entry, err := m.ledger.CreateEntry(ctx, m.actor, kind, params)

		return entrySavedMsg{entry: entry, err: err}
	}
}
