package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

// tokenDigest collapses a JWT to a fixed width hex digest before it is
// bcrypt hashed or compared. bcrypt only reads the first 72 bytes of
// its input and a signed token is much longer than that.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type bcryptHasher struct{}

var _ Hasher = bcryptHasher{}

func (bcryptHasher) Hash(value string) (string, error) {
	return HashPassword(value)
}

func (bcryptHasher) Compare(value, hash string) error {
	return ComparePasswordAndHash(value, hash)
}
