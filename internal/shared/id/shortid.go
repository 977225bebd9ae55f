package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 12
)

// Prefixes for public identifiers.
const (
	PrefixRaffle      = "rfl"
	PrefixTransaction = "txn"
	PrefixBuyer       = "byr"
)

// Generate creates a cryptographically random Base62 ID.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates an ID in the form "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}

func NewTransactionSID() (string, error) {
	return GenerateWithPrefix(PrefixTransaction, DefaultLength)
}

func NewRaffleSID() (string, error) {
	return GenerateWithPrefix(PrefixRaffle, DefaultLength)
}

func NewBuyerSID() (string, error) {
	return GenerateWithPrefix(PrefixBuyer, DefaultLength)
}

// HasPrefix reports whether sid looks like "prefix_xxx".
func HasPrefix(sid, prefix string) bool {
	rest, ok := strings.CutPrefix(sid, prefix+"_")
	return ok && rest != ""
}
