package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*-_=+?"

	// MinGeneratedLength is also above the account password minimum.
	MinGeneratedLength = 8
	MaxGeneratedLength = 128
)

var ErrGeneratedLength = errors.New("generated password length must be between 8 and 128")

var charClasses = []string{uppercaseChars, lowercaseChars, digitChars, symbolChars}

// GeneratePassword returns a random password of the given length that
// contains at least one character of every class.
func GeneratePassword(length int) (string, error) {
	if length < MinGeneratedLength || length > MaxGeneratedLength {
		return "", ErrGeneratedLength
	}

	var pool string
	for _, class := range charClasses {
		pool += class
	}

	result := make([]byte, length)
	for i := range result {
		charset := pool
		if i < len(charClasses) {
			charset = charClasses[i]
		}
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle is a Fisher-Yates shuffle driven by crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
