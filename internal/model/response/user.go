package response

import (
	"time"

	"github.com/gofrs/uuid"
)

// User is an admin account of the dashboard.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Password     *string    `json:"-" db:"password"`
	IsSuperAdmin *bool      `json:"is_super_admin,omitempty" db:"is_super_admin"`
	CreatedAt    *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
