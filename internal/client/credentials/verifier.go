package credentials

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/shared"
	"golang.org/x/crypto/argon2"
)

// PasswordVerifier seals passwords for storage and checks candidates
// against the stored form.
type PasswordVerifier interface {
	Seal(password string) (string, error)
	Verify(stored, candidate string) bool
}

// Scheme names accepted by NewVerifier.
const (
	SchemePlain  = "plain"
	SchemeArgon2 = "argon2"
)

// NewVerifier returns the verifier for scheme; an empty scheme means plain.
func NewVerifier(scheme string) (PasswordVerifier, error) {
	switch scheme {
	case "", SchemePlain:
		return PlainVerifier{}, nil
	case SchemeArgon2:
		return Argon2Verifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported password scheme: %s", scheme)
	}
}

// PlainVerifier stores passwords as given. This matches records written by
// earlier clients sharing the same key space.
type PlainVerifier struct{}

func (PlainVerifier) Seal(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

const argon2Prefix = "argon2id$"

// Argon2Verifier stores argon2id$<salt>$<key> with base64 salt and key.
// Stored values without the prefix are compared as plain text so registries
// created before switching schemes keep working.
type Argon2Verifier struct{}

func (Argon2Verifier) Seal(password string) (string, error) {
	salt, err := shared.RandomBytes(16)
	if err != nil {
		return "", fmt.Errorf("salt generation failed: %w", err)
	}
	key := deriveKey(password, salt)
	return argon2Prefix + base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(key), nil
}

func (Argon2Verifier) Verify(stored, candidate string) bool {
	rest, ok := strings.CutPrefix(stored, argon2Prefix)
	if !ok {
		return PlainVerifier{}.Verify(stored, candidate)
	}
	saltPart, keyPart, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(keyPart)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, deriveKey(candidate, salt)) == 1
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}
