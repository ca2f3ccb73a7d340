package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

type Booking struct {
	ID             string        `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	UserID         string        `json:"userId" bson:"user_id" gorm:"not null;size:36;index"`
	Purpose        string        `json:"purpose" bson:"purpose" gorm:"not null"`
	PickupAddress  string        `json:"pickupAddress" bson:"pickup_address" gorm:"not null"`
	DropAddress    string        `json:"dropAddress" bson:"drop_address" gorm:"not null"`
	PickupDateTime string        `json:"pickupDateTime" bson:"pickup_date_time" gorm:"not null"`
	ReturnDateTime *string       `json:"returnDateTime" bson:"return_date_time"`
	Status         BookingStatus `json:"status" bson:"status" gorm:"not null;default:pending;index"`
	CreatedAt      time.Time     `json:"createdAt" bson:"created_at"`
}

func (Booking) TableName() string { return "bookings" }

type CreateBookingRequest struct {
	Purpose        string  `json:"purpose" validate:"required,max=500"`
	PickupAddress  string  `json:"pickupAddress" validate:"required,max=500"`
	DropAddress    string  `json:"dropAddress" validate:"required,max=500"`
	PickupDateTime string  `json:"pickupDateTime" validate:"required"`
	ReturnDateTime *string `json:"returnDateTime" validate:"omitempty"`
}

type UpdateBookingStatusRequest struct {
	ID     string        `json:"id" validate:"required"`
	Status BookingStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// BookingWithUser is a booking enriched with its requester.
type BookingWithUser struct {
	Booking
	User *User `json:"user"`
}

// ApprovedBooking is a booking enriched with its requester and, when one
// exists, its allocation and the allocated driver.
type ApprovedBooking struct {
	Booking
	User       *User                 `json:"user"`
	Allocation *AllocationWithDriver `json:"allocation"`
}
