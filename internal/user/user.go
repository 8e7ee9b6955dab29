package user

import (
	"time"

	"github.com/google/uuid"
)

const DefaultCurrency = "COP"

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	// Currency is an ISO 4217 code.
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
