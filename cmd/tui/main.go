package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocketbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pocketbook/internal/config"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/statement"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/pocketbook/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/logging"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocketbook/internal/matching/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/notify"
	"github.com/MrJamesThe3rd/pocketbook/internal/reconcile"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
	reportStore "github.com/MrJamesThe3rd/pocketbook/internal/report/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
	userStore "github.com/MrJamesThe3rd/pocketbook/internal/user/store"
)

const logFile = "pocketbook-tui.log"

type model struct {
	ledgerService *ledger.Service
	reportService *report.Service
	importService *importer.Service
	auditor       *reconcile.Service

	actor       uuid.UUID
	email       string
	currentView View

	loginView   view.LoginModel
	walletsView view.WalletsModel
	summaryView view.SummaryModel
	importView  view.ImportModel
	auditView   view.AuditModel
}

type View int

const (
	ViewLogin   View = 0
	ViewMenu    View = 1
	ViewWallets View = 2
	ViewSummary View = 3
	ViewImport  View = 4
	ViewAudit   View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(f, cfg.Log.Level))

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledgers := ledgerStore.New(db)
	ledgerSvc := ledger.NewService(ledgers)
	userSvc := user.NewService(userStore.New(db), nil)
	matchSvc := matching.NewService(matchingStore.New(db), ledgerSvc)

	return model{
		ledgerService: ledgerSvc,
		reportService: report.NewService(reportStore.New(db), ledgerSvc),
		importService: importer.NewService(statement.NewParser(), ledgerSvc, matchSvc),
		auditor: reconcile.NewService(ledgers, notify.LogPublisher{},
			reconcile.WithConcurrency(cfg.Reconcile.Concurrency),
		),
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(userSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewWallets
				m.walletsView = view.NewWalletsModel(m.ledgerService, m.actor)

				return m, m.walletsView.Init()
			case "2":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.reportService, m.actor)

				return m, m.summaryView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledgerService, m.importService, m.actor)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewAudit
				m.auditView = view.NewAuditModel(m.auditor)

				return m, m.auditView.Init()
			}
		}
	case view.SignedInMsg:
		m.actor = msg.UserID
		m.email = msg.Email
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewWallets:
		var newModel tea.Model
		newModel, cmd = m.walletsView.Update(msg)
		m.walletsView = newModel.(view.WalletsModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewAudit:
		var newModel tea.Model
		newModel, cmd = m.auditView.Update(msg)
		m.auditView = newModel.(view.AuditModel)
	}

	return m, cmd
}

func (m model) View() string {
	var active view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Pocketbook (%s)\n\n", m.email) +
				"1. Wallets\n" +
				"2. Monthly Summary\n" +
				"3. Import Statement\n" +
				"4. Balance Audit\n\n" +
				"q. Quit",
		)
	case ViewLogin:
		active = m.loginView
	case ViewWallets:
		active = m.walletsView
	case ViewSummary:
		active = m.summaryView
	case ViewImport:
		active = m.importView
	case ViewAudit:
		active = m.auditView
	default:
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(active.Title()),
		active.View(),
		lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(active.ShortHelp()),
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
