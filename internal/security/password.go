// Package security generates credentials handed to people out of band.
package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet = "abcdefghijkmnopqrstuvwxyz"
	digitAlphabet = "23456789"

	// PasswordAlphabet omits characters that are easy to misread: 0/O, 1/l/I.
	PasswordAlphabet = upperAlphabet + lowerAlphabet + digitAlphabet

	MinTemporaryPasswordLength = 8
)

var errEmptyAlphabet = errors.New("alphabet must not be empty")

// TemporaryPassword returns a password of at least MinTemporaryPasswordLength
// characters holding an upper case letter, a lower case letter and a digit,
// so it satisfies the account password policy.
func TemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		length = MinTemporaryPasswordLength
	}

	password := make([]byte, 0, length)
	for _, alphabet := range []string{upperAlphabet, lowerAlphabet, digitAlphabet} {
		char, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}
	for len(password) < length {
		char, err := randomChar(PasswordAlphabet)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}

	// Fisher-Yates, so the guaranteed classes are not always up front.
	for index := len(password) - 1; index > 0; index-- {
		swap, err := randomIndex(index + 1)
		if err != nil {
			return "", err
		}
		password[index], password[swap] = password[swap], password[index]
	}
	return string(password), nil
}

func randomChar(alphabet string) (byte, error) {
	if alphabet == "" {
		return 0, errEmptyAlphabet
	}
	index, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[index], nil
}

func randomIndex(limit int) (int, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return int(position.Int64()), nil
}
