package createuser

import (
	"crypto/rand"
	"math/big"
)

const (
	passwordLength  = 8
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword returns a random password for protocols whose secret must
// be handed to the operator (ssh). Uses crypto/rand; falls back to a fixed
// charset index only on reader failure, which cannot happen with the
// platform reader.
func GeneratePassword() string {
	out := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = passwordCharset[0]
			continue
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out)
}
