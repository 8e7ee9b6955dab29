package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, name, email, password_hash, currency, created_at, updated_at`

func scanUser(row *sql.Row) (*user.User, error) {
	var u user.User

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Currency, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) Create(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Currency,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return database.Translate(err, "creating user")
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting user")
	}

	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, database.Translate(err, "finding user by email")
	}

	return u, nil
}

func (s *Store) Update(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, currency = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		u.Name, u.Currency, u.PasswordHash, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		return database.Translate(err, "updating user")
	}

	return nil
}
