package transaction

import "time"

// Reference prefixes. Transfer legs append DebitSuffix and CreditSuffix to a
// shared TRF reference.
const (
	DepositReferencePrefix  = "REF"
	TransferReferencePrefix = "TRF"
	DebitSuffix             = "-DB"
	CreditSuffix            = "-CR"
)

// Default configuration values, amounts in minor units
const (
	DefaultMinDepositAmount  int64 = 100
	DefaultMinTransferAmount int64 = 100
	DefaultGatewayTimeout          = 15 * time.Second
	DefaultStatusCacheTTL          = 10 * time.Minute
)

const tracerName = "ledger/transaction"
