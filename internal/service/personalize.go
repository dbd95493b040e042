package service

import (
	"strings"

	"github.com/mailward/campaigner/internal/model"
)

// Personalize substitutes the customer's fields for the {{field}} tokens in
// content. Unknown tokens are left verbatim. Substitution runs in order over
// the raw string, so a field value containing a later token's literal is
// itself substituted on that token's pass. Empty content is returned
// unchanged.
func Personalize(content string, c *model.Customer) string {
	if content == "" || c == nil {
		return content
	}

	// full_name joins first and last with a single space only when both are
	// present; otherwise it collapses to whichever one is set.
	fullName := strings.TrimSpace(c.FirstName + " " + c.LastName)

	replacements := []struct {
		token string
		value string
	}{
		{"{{first_name}}", c.FirstName},
		{"{{last_name}}", c.LastName},
		{"{{email}}", c.Email},
		{"{{company}}", c.Company},
		{"{{phone}}", c.Phone},
		{"{{full_name}}", fullName},
	}

	result := content
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.token, r.value)
	}
	return result
}
