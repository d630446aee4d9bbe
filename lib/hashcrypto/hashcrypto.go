package hashcrypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

func HashPwd(pwd []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
}

func ComparePwd(hash, pwd []byte) error {
	return bcrypt.CompareHashAndPassword(hash, pwd)
}

// HashToken returns the hex sha256 of a session token. Only the hash is
// persisted so a leaked sessions table cannot be replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
