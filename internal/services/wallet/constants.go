package wallet

import "time"

// Wallet numbers are 13 decimal digits without a leading zero.
const (
	WalletNumberMin         int64 = 1_000_000_000_000
	WalletNumberMax         int64 = 10_000_000_000_000
	MaxWalletNumberAttempts       = 10
)

// Default configuration values
const (
	DefaultCurrency = "NGN"
	CacheDuration   = 5 * time.Minute
)
