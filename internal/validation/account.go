package validation

import (
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
)

// ValidateCreateAccount validates an account creation request.
func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errors["name"] = "name is required"
	} else if len(name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	return result(errors)
}

func ValidateArchiveAccount(req request.ArchiveAccountRequest) error {
	errors := make(map[string]string)

	if req.IsArchived == nil {
		errors["isArchived"] = "isArchived is required"
	}

	return result(errors)
}
