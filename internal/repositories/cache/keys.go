package cache

import "fmt"

type EntityType string

const (
	EntityWallet      EntityType = "wallet"
	EntityTransaction EntityType = "transaction"
)

type KeyType string

const (
	KeyBalance           KeyType = "balance"
	KeyBalanceGeneration KeyType = "balance_gen"
	KeyStatus            KeyType = "status"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// BalanceKey is the key of an owner's cached balance.
func BalanceKey(ownerID string) string {
	return GenerateKey(EntityWallet, KeyBalance, ownerID)
}

// BalanceGenerationKey is the counter bumped whenever an owner's balance
// changes. A cached balance is valid only for the generation it was read at.
func BalanceGenerationKey(ownerID string) string {
	return GenerateKey(EntityWallet, KeyBalanceGeneration, ownerID)
}

// StatusKey is the key of a transaction's cached terminal status.
func StatusKey(reference string) string {
	return GenerateKey(EntityTransaction, KeyStatus, reference)
}
