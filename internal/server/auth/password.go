package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is a throwaway bcrypt digest compared against when a login names
// an unknown user, so both failure modes pay the hash cost.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword derives a salted bcrypt digest from the plaintext password.
// No plaintext password is ever persisted.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword reports whether password matches the stored digest using
// bcrypt's own comparison routine.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck runs a bcrypt verification against a fixed digest and
// discards the result, keeping the unknown-user path on the same timing
// profile as a real comparison.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
