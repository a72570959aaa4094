package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used for stored credentials.
const DefaultCost = 12

// HashPassword hashes a given password using bcrypt.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
