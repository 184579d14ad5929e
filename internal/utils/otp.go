package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
)

// NewOTPCode returns a 4-digit one-time code drawn uniformly from
// [1000, 9999] using the system CSPRNG.
func NewOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

// NewResetTicket returns a hex-encoded random ticket handed out after a
// successful OTP verification and required by the password reset endpoint.
func NewResetTicket() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
