package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const importTimeout = 2 * time.Minute

type StatementImporter interface {
	Import(ctx context.Context, actor, walletID uuid.UUID, r io.Reader) (*ledger.ImportResult, error)
}

type importState int

const (
	importStateWalletSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	wallets  Wallets
	importer StatementImporter
	actor    uuid.UUID

	state        importState
	filePicker   filepicker.Model
	walletOpts   []*ledger.Wallet
	walletCursor int
	selected     *ledger.Wallet

	skippedList list.Model
	status      string
	err         error
}

func NewImportModel(wallets Wallets, imp StatementImporter, actor uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		wallets:    wallets,
		importer:   imp,
		actor:      actor,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | ↑/↓: browse skipped rows"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadWalletsCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateWalletSelect {
			return m.updateWalletSelect(msg)
		}

		if m.state == importStateResult && m.err == nil && len(m.skippedList.Items()) > 0 {
			var cmd tea.Cmd
			m.skippedList, cmd = m.skippedList.Update(msg)

			return m, cmd
		}

	case loadWalletsMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.walletOpts = msg.wallets

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d entries into %s, skipped %d duplicates.",
			len(msg.result.Imported), m.selected.Name, len(msg.result.Skipped))

		items := make([]list.Item, len(msg.result.Skipped))
		for i, row := range msg.result.Skipped {
			items[i] = skippedItem{row: row}
		}

		m.skippedList = list.New(items, skippedDelegate{}, 80, 15)
		m.skippedList.Title = "Skipped duplicates"
		m.skippedList.SetShowStatusBar(false)
		m.skippedList.SetFilteringEnabled(false)
		m.skippedList.SetShowHelp(false)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateWalletSelect
		return m, nil
	case importStateResult:
		if m.walletOpts == nil {
			return m, Back
		}

		m.state = importStateWalletSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateWalletSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.walletCursor > 0 {
			m.walletCursor--
		}
	case tea.KeyDown:
		if m.walletCursor < len(m.walletOpts)-1 {
			m.walletCursor++
		}
	case tea.KeyEnter:
		if len(m.walletOpts) == 0 {
			return m, nil
		}

		m.selected = m.walletOpts[m.walletCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateWalletSelect:
		return m.viewWalletSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement for %s:\n\n%s", m.selected.Name, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewWalletSelect() string {
	if len(m.walletOpts) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No wallets to import into.\n\n(Esc to go back)")
	}

	s := "Select wallet:\n\n"

	for i, w := range m.walletOpts {
		cursor := " "
		if i == m.walletCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s (%s)\n", cursor, w.Name, w.Owner)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	s := okStyle(m.status)
	if len(m.skippedList.Items()) > 0 {
		s += "\n\n" + m.skippedList.View()
	}

	return style.Render(s + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *ledger.ImportResult
	err    error
}

func (m ImportModel) loadWalletsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		wallets, err := m.wallets.ListWallets(ctx, m.actor, nil)

		return loadWalletsMsg{wallets: wallets, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	walletID := m.selected.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importer.Import(ctx, m.actor, walletID, f)

		return importResultMsg{result: result, err: err}
	}
}

// Skipped row list

type skippedItem struct {
	row ledger.ImportRow
}

func (i skippedItem) Title() string       { return i.row.Description }
func (i skippedItem) Description() string { return "" }
func (i skippedItem) FilterValue() string { return i.row.Description }

type skippedDelegate struct{}

func (d skippedDelegate) Height() int                             { return 1 }
func (d skippedDelegate) Spacing() int                            { return 0 }
func (d skippedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d skippedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(skippedItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s  %-8s %14s  %s",
		cursor,
		FormatDate(item.row.Date),
		item.row.Kind,
		FormatAmount(item.row.Amount),
		item.row.Description,
	)
}
