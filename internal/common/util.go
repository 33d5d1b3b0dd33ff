// Package common provides utility helpers for generating random strings.
package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandURLString generates a URL-safe random string from size random
// bytes, encoded with unpadded base64. A size of 32 gives 256 bits of
// entropy, which is the minimum used for ledger tokens.
//
// It returns an error if the random number generator fails.
func MakeRandURLString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
