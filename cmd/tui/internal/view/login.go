package view

import (
	"context"
	"fmt"
	"net/mail"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Directory resolves the operator's account.
type Directory interface {
	UserIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}

// SignedInMsg carries the user every other screen acts as.
type SignedInMsg struct {
	UserID uuid.UUID
	Email  string
}

type LoginModel struct {
	CommonModel
	users Directory

	form    *huh.Form
	pending bool
	err     error
}

func NewLoginModel(users Directory) LoginModel {
	return LoginModel{users: users, form: newLoginForm()}
}

func newLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@example.com").
				Validate(func(s string) error {
					if _, err := mail.ParseAddress(s); err != nil {
						return fmt.Errorf("enter a valid email")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Sign in" }
func (m LoginModel) ShortHelp() string { return "Enter: continue | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(lookupMsg); ok {
		m.pending = false
		if res.err != nil {
			m.err = res.err
			m.form = newLoginForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return SignedInMsg{UserID: res.id, Email: res.email} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.pending {
		return m, cmd
	}

	m.pending = true

	return m, m.lookupCmd(m.form.GetString("email"))
}

func (m LoginModel) View() string {
	s := "Pocketbook\n\n" + m.form.View()
	if m.err != nil {
		s += "\n" + errorStyle(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

type lookupMsg struct {
	id    uuid.UUID
	email string
	err   error
}

func (m LoginModel) lookupCmd(email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := m.users.UserIDByEmail(ctx, email)

		return lookupMsg{id: id, email: email, err: err}
	}
}
