package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/group"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const groupColumns = `id, name, description, created_by, created_at`

func scanGroup(s scanner) (*group.Group, error) {
	var g group.Group

	if err := s.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt); err != nil {
		return nil, err
	}

	return &g, nil
}

const memberQuery = `
	SELECT m.group_id, m.user_id, u.name, u.email, m.role, m.joined_at
	FROM group_members m
	JOIN users u ON u.id = m.user_id`

func scanMember(s scanner) (*group.Member, error) {
	var (
		m    group.Member
		role string
	)

	if err := s.Scan(&m.GroupID, &m.UserID, &m.Name, &m.Email, &role, &m.JoinedAt); err != nil {
		return nil, err
	}

	m.Role = group.Role(role)

	return &m, nil
}

func membership(ctx context.Context, q querier, groupID, userID uuid.UUID, lock bool) (*group.Member, error) {
	query := memberQuery + ` WHERE m.group_id = $1 AND m.user_id = $2`
	if lock {
		query += ` FOR UPDATE OF m`
	}

	m, err := scanMember(q.QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		return nil, database.Translate(err, "getting membership")
	}

	return m, nil
}

func (s *Store) Begin(ctx context.Context) (group.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &tx{tx: dbTx}, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting group")
	}

	return g, nil
}

func (s *Store) ListForUser(ctx context.Context, userID uuid.UUID) ([]*group.Group, error) {
	query := `SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*group.Group

	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		groups = append(groups, g)
	}

	return groups, rows.Err()
}

func (s *Store) Membership(ctx context.Context, groupID, userID uuid.UUID) (*group.Member, error) {
	return membership(ctx, s.db, groupID, userID, false)
}

func (s *Store) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*group.Member, error) {
	rows, err := s.db.QueryContext(ctx, memberQuery+` WHERE m.group_id = $1 ORDER BY m.joined_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*group.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	return members, rows.Err()
}

type tx struct {
	tx *sql.Tx
}

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

func (t *tx) Create(ctx context.Context, g *group.Group) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO groups (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		g.Name, g.Description, g.CreatedBy,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating group")
	}

	return nil
}

func (t *tx) Update(ctx context.Context, g *group.Group) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE groups SET name = $1, description = $2 WHERE id = $3`, g.Name, g.Description, g.ID)
	if err != nil {
		return database.Translate(err, "updating group")
	}

	return nil
}

// Delete cascades to memberships and every group-owned record.
func (t *tx) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return database.Translate(err, "deleting group")
	}

	return nil
}

func (t *tx) LockGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	g, err := scanGroup(t.tx.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, database.Translate(err, "locking group")
	}

	return g, nil
}

func (t *tx) Membership(ctx context.Context, groupID, userID uuid.UUID) (*group.Member, error) {
	return membership(ctx, t.tx, groupID, userID, true)
}

func (t *tx) AddMember(ctx context.Context, m *group.Member) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`,
		m.GroupID, m.UserID, m.Role,
	).Scan(&m.JoinedAt)
	if err != nil {
		return database.Translate(err, "adding member")
	}

	return nil
}

func (t *tx) SetRole(ctx context.Context, groupID, userID uuid.UUID, role group.Role) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3`,
		role, groupID, userID,
	)
	if err != nil {
		return database.Translate(err, "changing role")
	}

	return nil
}

func (t *tx) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return database.Translate(err, "removing member")
	}

	return nil
}

func (t *tx) CountAdmins(ctx context.Context, groupID uuid.UUID) (int, error) {
	var n int

	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND role = 'admin'`, groupID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}

	return n, nil
}
