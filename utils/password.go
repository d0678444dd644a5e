package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
)

var ErrEmptyPassword = errors.New("password must not be empty")

var passwordHasher = argon2.DefaultConfig()

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	encoded, err := passwordHasher.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(encoded), nil
}

// VerifyPassword reports false, without error, for hashes that are not argon2 encoded.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if !strings.HasPrefix(encodedHash, "$argon2") {
		return false, nil
	}
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
