package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/merrylab/timeline/internal/constants"
)

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTempPassword returns a random alphanumeric password for newly
// provisioned accounts.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, constants.TempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}

	return string(buf), nil
}
