// Package idgen generates hash-based entity ids and log entry ids.
package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity id prefixes. Threads and containers share one id space, so their
// prefixes must stay distinct from each other; groups have their own space.
const (
	ThreadPrefix    = "th"
	ContainerPrefix = "ct"
	GroupPrefix     = "gr"
)

// DefaultLength is the hash portion length of generated entity ids.
const DefaultLength = 5

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// EncodeBase36 converts a byte slice to a base36 string of the given length,
// zero-padded on the left and truncated to the least significant digits.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	var result strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}

	return str
}

// NewEntityID creates a hash-based id like "th-k3f9x" from the entity's
// content at creation time. The nonce disambiguates hash collisions: callers
// retry with an incremented nonce until the id is free.
func NewEntityID(prefix, name, description string, timestamp time.Time, nonce int) string {
	content := fmt.Sprintf("%s|%s|%d|%d", name, description, timestamp.UnixNano(), nonce)
	hash := sha256.Sum256([]byte(content))
	// 4 bytes = 32 bits, just over 6 base36 chars; 5 keeps ids typeable
	return fmt.Sprintf("%s-%s", prefix, EncodeBase36(hash[:4], DefaultLength))
}

// NewEntryID returns a unique id for a progress or detail log entry.
// Entry ids never appear in user-facing resolution, so a plain UUID is fine.
func NewEntryID() string {
	return uuid.NewString()
}
