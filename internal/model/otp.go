package model

import "time"

// OTPVerification stores one issued login code. The code itself is kept as a
// bcrypt hash; verification counts attempts so a code cannot be brute-forced.
// swagger:model OTPVerification
type OTPVerification struct {
	BaseModel
	Identifier string    `gorm:"size:120;not null;index" json:"identifier"`
	CodeHash   string    `gorm:"size:256;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expiresAt"`
	Attempts   int       `gorm:"default:0;not null" json:"attempts"`
	IsVerified bool      `gorm:"default:false;not null" json:"isVerified"`
}

func (OTPVerification) TableName() string {
	return "otp_verifications"
}

func (o *OTPVerification) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
