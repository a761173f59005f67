package auth

import (
	"crypto/sha512"
	"crypto/subtle"
)

// CredentialsMatch compares a stored credential against a supplied one in
// constant time. Both sides are hashed first so inputs of different
// lengths take the same comparison path.
func CredentialsMatch(stored, supplied string) bool {
	storedSum := sha512.Sum512([]byte(stored))
	suppliedSum := sha512.Sum512([]byte(supplied))
	return subtle.ConstantTimeCompare(storedSum[:], suppliedSum[:]) == 1
}
