package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

const minPasswordLength = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// TokenIssuer hands out an access token for a freshly registered user.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Currency string
}

type UpdateParams struct {
	Name     *string
	Currency *string
	Password *string
}

// Registration is a new user plus its access token. Token is empty when issuing
// it failed; the account exists either way.
type Registration struct {
	User  *User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*Registration, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}

	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}

	code, err := normalizeCurrency(params.Currency)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{Name: name, Email: email, PasswordHash: hash, Currency: code}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	reg := &Registration{User: u}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		slog.Error("failed to issue token after registration", "user_id", u.ID, "error", err)
		return reg, nil
	}

	reg.Token = token

	return reg, nil
}

func (s *Service) Get(ctx context.Context, actor uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, actor)
}

// UpdateProfile changes the actor's own profile.
func (s *Service) UpdateProfile(ctx context.Context, actor uuid.UUID, params UpdateParams) (*User, error) {
	u, err := s.repo.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.New(apperr.KindValidation, "name is required")
		}

		u.Name = name
	}

	if params.Currency != nil {
		code, err := normalizeCurrency(*params.Currency)
		if err != nil {
			return nil, err
		}

		u.Currency = code
	}

	if params.Password != nil {
		hash, err := hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}

		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// UserIDByEmail resolves a registered user for group invitations.
func (s *Service) UserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return uuid.Nil, err
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}

	return u.ID, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", apperr.Newf(apperr.KindValidation, "invalid email %q", raw)
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeCurrency(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCurrency, nil
	}

	unit, err := currency.ParseISO(raw)
	if err != nil {
		return "", apperr.Newf(apperr.KindValidation, "unknown currency %q", raw)
	}

	return unit.String(), nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperr.Newf(apperr.KindValidation, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}
