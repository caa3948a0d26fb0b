package security

import (
	"github.com/matthewhartstonge/argon2"
)

// HashCode returns the argon2id encoded hash of a one-time code.
func HashCode(code string) (string, error) {
	cfg := argon2.DefaultConfig()

	encoded, err := cfg.HashEncoded([]byte(code))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyCode reports whether code matches an encoded hash produced by HashCode.
func VerifyCode(code, encoded string) (bool, error) {
	return argon2.VerifyEncoded([]byte(code), []byte(encoded))
}
