// Package cryptox wraps the password hashing primitives used by the
// credential store. The hash algorithm is deliberately hidden behind this
// package so callers treat it as an opaque verifier.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt hash from the plaintext password.
// The cost is bcrypt's default; stored hashes embed their cost, so it can
// be raised later without invalidating existing credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the candidate password matches the stored
// hash. Any comparison failure, including a corrupted hash, yields false;
// callers must not learn why verification failed.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
