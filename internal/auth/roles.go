package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// Roles stored on the user record. Normalized to lowercase at the store
// boundary; raw strings are never compared downstream.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleIntern   = "intern"
)

// ErrRoleMismatch is returned when the role declared on the login form is
// not compatible with the role stored on the user record.
var ErrRoleMismatch = errors.New("selected role does not match your account")

// NormalizeRole maps a stored or submitted role string onto the enum.
func NormalizeRole(role string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleIntern:
		return RoleIntern, nil
	}
	return "", errors.Errorf("unknown role %q", role)
}

// ResolveView decides which dashboard a login is granted. Admins may log
// in through the employee view; nobody else crosses views.
func ResolveView(declared, actual string) (string, error) {
	actual, err := NormalizeRole(actual)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(declared)) {
	case RoleAdmin:
		if actual == RoleAdmin {
			return RoleAdmin, nil
		}
	case RoleEmployee:
		return RoleEmployee, nil
	}

	return "", ErrRoleMismatch
}
