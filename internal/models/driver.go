package models

import (
	"time"
)

type DriverStatus string

const (
	DriverStatusAvailable   DriverStatus = "available"
	DriverStatusBusy        DriverStatus = "busy"
	DriverStatusUnavailable DriverStatus = "unavailable"
)

type Driver struct {
	ID            string       `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name          string       `json:"name" bson:"name" gorm:"not null"`
	PhoneNumber   string       `json:"phoneNumber" bson:"phone_number" gorm:"not null;uniqueIndex:idx_drivers_phone_number"`
	LicenseNumber string       `json:"licenseNumber" bson:"license_number" gorm:"not null;uniqueIndex:idx_drivers_license_number"`
	Status        DriverStatus `json:"status" bson:"status" gorm:"not null;default:available;index"`
	CreatedAt     time.Time    `json:"createdAt" bson:"created_at"`
}

func (Driver) TableName() string { return "drivers" }

type CreateDriverRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,min=7,max=20"`
	LicenseNumber string `json:"licenseNumber" validate:"required,max=40"`
}
