package validation

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount reads a minor-unit amount from a json.Number. Fractions, exponents
// and non-numeric input are rejected rather than rounded.
func (v *Validator) Amount(field string, n json.Number) int64 {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		v.AddError(field, "is required")
		return 0
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		v.AddError(field, "must be a whole number of minor units")
		return 0
	}
	v.Check(amount > 0, field, "must be greater than zero")
	return amount
}
