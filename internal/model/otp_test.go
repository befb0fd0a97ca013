package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPVerificationIsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	otp := &OTPVerification{ExpiresAt: issued.Add(5 * time.Minute)}

	assert.False(t, otp.IsExpired(issued))
	assert.False(t, otp.IsExpired(issued.Add(5*time.Minute)), "boundary is still valid")
	assert.True(t, otp.IsExpired(issued.Add(5*time.Minute+time.Second)))
}
