package group

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Group struct {
	ID          uuid.UUID
	Name        string
	Description string
	// CreatedBy is nil on legacy groups whose creator was never recorded.
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

// IsCreator reports whether userID created the group.
func (g *Group) IsCreator(userID uuid.UUID) bool {
	return g.CreatedBy != nil && *g.CreatedBy == userID
}

type Member struct {
	GroupID  uuid.UUID
	UserID   uuid.UUID
	Name     string
	Email    string
	Role     Role
	JoinedAt time.Time
}
