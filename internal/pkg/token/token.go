// Package token generates the random scan tokens carried by events and
// registrations. One policy everywhere: 16 random bytes, hex encoded.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const numBytes = 16

func New() (string, error) {
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	return hex.EncodeToString(buf), nil
}
