package ports

// PasswordHasher is a one-way, salted transform for account secrets. Hash is
// called only when a secret is newly set or changed; stored hashes are never
// re-hashed. Verify tolerates malformed stored hashes by returning false.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(candidate, hash string) bool
}
