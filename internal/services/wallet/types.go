package wallet

import "time"

// Balance is the read view of a wallet's funds in minor units.
type Balance struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// cachedBalance is a Balance tagged with the generation it was read at.
type cachedBalance struct {
	Generation int64 `json:"generation"`
	Balance
}

// Config holds configuration for wallet operations
type Config struct {
	DefaultCurrency string
	CacheTTL        time.Duration
}
