package gateway

import "errors"

// ErrMalformedPayload is returned when a notification body cannot be parsed.
var ErrMalformedPayload = errors.New("malformed notification payload")
