package state

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of storefront roles.
type Role string

const (
	// RoleUser is a regular shopper.
	RoleUser Role = "User"
	// RoleAdmin can access the admin subtree.
	RoleAdmin Role = "Admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole matches a role name case-insensitively.
func ParseRole(name string) (Role, error) {
	for _, candidate := range Roles {
		if strings.EqualFold(string(candidate), strings.TrimSpace(name)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", name)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" {
		*r = ""
		return nil
	}
	role, err := ParseRole(name)
	if err != nil {
		return err
	}
	*r = role
	return nil
}
