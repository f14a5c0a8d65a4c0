package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// mintOTP samples a 6-digit code uniformly over [100000, 999999].
func mintOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// hashOTP is the one-way storage form. Only the hash is ever persisted.
func hashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func otpMatches(code, storedHash string) bool {
	h := hashOTP(code)
	return subtle.ConstantTimeCompare([]byte(h), []byte(storedHash)) == 1
}
