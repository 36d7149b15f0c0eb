package forms

import (
	"strings"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var credentialLabels = map[string]string{
	"username": "username",
	"password": "password",
}

// ValidateCredential checks both login inputs are present. The username is
// trimmed; the password is taken as typed.
func ValidateCredential(c *domain.AdminCredential) error {
	c.Username = strings.TrimSpace(c.Username)
	return check("your", c, credentialLabels)
}
