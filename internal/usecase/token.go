package usecase

import (
	"crypto/rand"

	"github.com/iho/parklot/internal/domain"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomTokenGenerator draws fixed-length uppercase alphanumeric suffixes.
type RandomTokenGenerator struct{}

// NewRandomTokenGenerator creates a new RandomTokenGenerator.
func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}

// Generate returns prefix plus a random suffix, e.g. "TWA1B2C3".
func (g *RandomTokenGenerator) Generate(prefix string) string {
	buf := make([]byte, domain.TokenSuffixLength)
	// rand.Read on crypto/rand never fails on supported platforms.
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return prefix + string(buf)
}
