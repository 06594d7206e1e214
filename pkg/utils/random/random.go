package random

import (
	"crypto/rand"
	"math/big"
)

const digits = "123456789"

// GuestID returns a random positive identifier for anonymous players.
// crypto/rand keeps ids unguessable; no uniqueness guarantee is needed
// because guests own nothing beyond their token lifetime.
func GuestID() int64 {
	max := big.NewInt(1 << 62)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 1
	}
	return n.Int64() + 1
}

// Numeric returns a random digit string, usable as a display handle.
func Numeric(length int) string {
	if length <= 0 {
		return ""
	}
	max := big.NewInt(int64(len(digits)))
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = digits[0]
			continue
		}
		out[i] = digits[n.Int64()]
	}
	return string(out)
}
