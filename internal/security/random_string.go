package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	SecretKeyAlphabet      = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	DefaultSecretKeyLength = 48
)

var (
	ErrSecretTooShort = errors.New("secret length must be at least 32")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// NewSecretKey returns a random signing secret suitable for SECRET_KEY.
func NewSecretKey(length int) (string, error) {
	if length < 32 {
		return "", ErrSecretTooShort
	}
	return randomString(length, SecretKeyAlphabet)
}

// randomString draws every character uniformly from alphabet.
func randomString(length int, alphabet string) (string, error) {
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}
