package transaction

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newReference returns <prefix>-<unix-ms>-<8 hex chars>.
func newReference(prefix string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf)), nil
}
