package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cih-lian-liao/my-healthcare-buddy/internal/errs"
)

const (
	saltLength = 16
	iterations = 10000
	keyLength  = 32
)

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// GenerateSalt returns a fresh 16-byte random salt, base64-encoded. Salts are
// never reused across credentials.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errs.Configuration("generate salt", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// HashPassword derives a deterministic digest from the salt-prefixed password.
// The same (password, salt) pair always yields the same hash; different salts
// yield different hashes.
func HashPassword(password, salt string) (string, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), rawSalt, iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key), nil
}

// VerifyPassword recomputes the hash for (password, salt) and compares it with
// the stored hash in constant time.
func VerifyPassword(password, hash, salt string) bool {
	computed, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// Strength classifies a password by character variety and length.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
	VeryStrong
)

func (s Strength) String() string {
	switch s {
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case VeryStrong:
		return "very strong"
	default:
		return "weak"
	}
}

// CheckStrength scores one point each for uppercase, lowercase, digit, special
// character and length of at least 8.
func CheckStrength(password string) Strength {
	if len(password) < 6 {
		return Weak
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, ch):
			hasSpecial = true
		}
	}

	score := 0
	for _, b := range []bool{hasUpper, hasLower, hasDigit, hasSpecial, len(password) >= 8} {
		if b {
			score++
		}
	}

	switch {
	case score <= 2:
		return Weak
	case score <= 3:
		return Medium
	case score <= 4:
		return Strong
	default:
		return VeryStrong
	}
}
