package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPIsNumericAndPadded(t *testing.T) {
	for _, digits := range []int{4, 6, 8} {
		otp, err := GenerateOTP(digits)
		require.NoError(t, err)
		assert.Len(t, otp, digits)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in %q", r, otp)
		}
	}
}

func TestOTPDigitsFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 4},
		{"6", 6},
		{"8", 8},
		{"3", 4},
		{"12", 4},
		{"lots", 4},
	}
	for _, tt := range tests {
		t.Setenv("OTP_DIGITS", tt.value)
		assert.Equal(t, tt.want, OTPDigits(), "OTP_DIGITS=%q", tt.value)
	}
}
