// Package shared provides random-value and memory-wiping helpers used by the
// credential code and the upload key generator.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomBytes returns n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomHex returns a hex string encoding n random bytes (2n characters).
func RandomHex(n int) (string, error) {
	b, err := RandomBytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b in place; nil is allowed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
