// Package password hashes and verifies account passwords with scrypt.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	algorithm = "scrypt"
	costN     = 16384
	blockR    = 8
	parallelP = 1
	keyLen    = 64
	saltLen   = 16
)

// Hash derives a self-describing record:
// scrypt$N$r$p$<base64 salt>$<base64 key>.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, costN, blockR, parallelP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return strings.Join([]string{
		algorithm,
		strconv.Itoa(costN),
		strconv.Itoa(blockR),
		strconv.Itoa(parallelP),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$"), nil
}

// Verify reports whether password matches record. Malformed records yield false.
func Verify(password, record string) bool {
	parts := strings.Split(record, "$")
	if len(parts) != 6 || parts[0] != algorithm {
		return false
	}
	n, errN := strconv.Atoi(parts[1])
	r, errR := strconv.Atoi(parts[2])
	p, errP := strconv.Atoi(parts[3])
	if errN != nil || errR != nil || errP != nil || n <= 1 || r <= 0 || p <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	actual, err := scrypt.Key([]byte(password), salt, n, r, p, len(expected))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
