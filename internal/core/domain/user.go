package domain

import "time"

// UserRole is the coarse role assigned to a user. The core never branches on
// roles; roles map to capabilities at the HTTP boundary (see Capability).
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)

// User represents an actor of the application in the domain.
type User struct {
	UserID   string   `json:"userID"` // Primary Key (UUID)
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}
