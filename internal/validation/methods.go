// Package validation checks request input before it reaches the ledger
// services. Failures are reported as a single validation DomainError.
package validation

import (
	"sort"
	"strings"

	domainerrors "ledger/internal/errors"
)

const CodeValidationFailed = "VALIDATION_FAILED"

// Validator collects field errors.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError keeps the first message recorded for a field.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when valid, otherwise a validation error listing every
// failing field in name order.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v.Errors[f])
	}
	return domainerrors.Validation(CodeValidationFailed, strings.Join(parts, "; "))
}
