package models

import (
	"time"
)

// OTP is a one-time passcode bound to a phone number.
type OTP struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	UserID      *string   `json:"userId,omitempty" bson:"user_id,omitempty" gorm:"size:36"`
	PhoneNumber string    `json:"phoneNumber" bson:"phone_number" gorm:"not null;index"`
	Code        string    `json:"-" bson:"code" gorm:"not null"`
	ExpiresAt   time.Time `json:"expiresAt" bson:"expires_at" gorm:"not null"`
	IsVerified  bool      `json:"isVerified" bson:"is_verified" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

func (OTP) TableName() string { return "otps" }

// Active reports whether the code can still be redeemed at now.
func (o *OTP) Active(now time.Time) bool {
	return !o.IsVerified && now.Before(o.ExpiresAt)
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}
