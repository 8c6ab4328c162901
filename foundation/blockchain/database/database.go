// Package database provides the data model for the blockchain along with the
// hashing, proof of work and validation rules that make a chain trustworthy.
package database

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros. It is returned when a value can't
// be serialized for hashing.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// sha256Hex returns the hex encoded SHA-256 digest of the data. The digest is
// always 64 lowercase characters with no prefix.
func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// safeEv returns an event handler that can always be called.
func safeEv(ev func(v string, args ...any)) func(v string, args ...any) {
	if ev == nil {
		return func(v string, args ...any) {}
	}
	return ev
}
