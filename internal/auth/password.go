package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost resists offline brute force on commodity hardware
const DefaultBcryptCost = 12

// dummyHash keeps AuthenticateUser constant-work when the email is unknown:
// a compare against it costs the same as a real one.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("farmland-portal-dummy"), DefaultBcryptCost)

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword reports whether password matches hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnCompare performs a throwaway bcrypt compare so a missing user takes as
// long as a wrong password.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
