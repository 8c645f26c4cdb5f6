package gateway

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// minorUnits reads an amount in minor units. Only a bare JSON integer is
// accepted; fractions, exponents and quoted numbers are malformed.
func minorUnits(r gjson.Result) (int64, error) {
	if r.Type != gjson.Number {
		return 0, ErrMalformedPayload
	}
	v, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		return 0, ErrMalformedPayload
	}
	return v, nil
}
