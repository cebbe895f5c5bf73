package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strconv"
)

// OTPDigits is the verification code length, configurable through
// OTP_DIGITS. Codes shorter than 4 or longer than 8 are rejected by the
// verify endpoint, so out-of-range values fall back to the default.
func OTPDigits() int {
	if v := os.Getenv("OTP_DIGITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 4 && n <= 8 {
			return n
		}
	}
	return 4
}

// GenerateOTP returns a zero-padded numeric code of the given length.
func GenerateOTP(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
