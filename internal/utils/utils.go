package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateOTP returns a 6-digit numeric one-time passcode.
func GenerateOTP() (string, error) {
	// 100000..999999 so the code never has a leading zero
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateVerificationToken returns 32 random bytes hex-encoded. The token
// stands in for the email address in verification URLs so the address is not
// leaked.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
