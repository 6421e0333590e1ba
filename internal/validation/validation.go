// Package validation implements explicit, accumulating field validation.
// Validators collect every applicable error into a FieldErrors report so
// callers see all problems at once instead of the first one hit.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors maps a field name to the list of messages accumulated for it.
// It implements error so services can return it through normal error paths.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// IsEmail reports whether value is a syntactically valid email address
func IsEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}
