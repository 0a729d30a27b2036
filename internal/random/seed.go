// Package random generates high-entropy integer seeds for the deterministic
// combat engine. Seeds are drawn once at challenge time and stored on the
// fight, so crypto/rand quality here does not affect replayability.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
