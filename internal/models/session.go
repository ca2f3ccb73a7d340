package models

import (
	"time"
)

// Session records an issued user token until logout or expiry.
type Session struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" bson:"user_id" gorm:"not null;size:36;index"`
	Token     string    `json:"-" bson:"token" gorm:"not null;uniqueIndex:idx_sessions_token"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (Session) TableName() string { return "sessions" }
