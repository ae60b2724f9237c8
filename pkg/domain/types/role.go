package types

import "fmt"

// Role identifies who authored a conversation message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// AllRoles returns all valid message roles
func AllRoles() []Role {
	return []Role{RoleUser, RoleModel}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModel:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid message role: %s", s)
	}
	return role, nil
}
