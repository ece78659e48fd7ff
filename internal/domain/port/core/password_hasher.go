package core

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash
	Compare(hash, password string) error
}
