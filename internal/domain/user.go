package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
	UserRoleViewer   UserRole = "viewer"
)

// CanWrite reports whether the role may record contact events. Viewers get
// read-only access to the dashboard.
func (r UserRole) CanWrite() bool {
	return r == UserRoleAdmin || r == UserRoleOperator
}

// User is an operator account on the retention dashboard, not a customer.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"` // Hashed password
	Role      UserRole  `json:"role"`
	Status    string    `json:"status"` // Active, Inactive, Blocked
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
