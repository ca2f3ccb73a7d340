package models

import (
	"time"
)

type AllocationStatus string

const (
	AllocationStatusAllocated AllocationStatus = "allocated"
	AllocationStatusCompleted AllocationStatus = "completed"
	AllocationStatusCancelled AllocationStatus = "cancelled"
)

// Allocation binds one driver to one booking. BookingID is unique.
type Allocation struct {
	ID        string           `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	BookingID string           `json:"bookingId" bson:"booking_id" gorm:"not null;size:36;uniqueIndex:idx_allocations_booking_id"`
	DriverID  string           `json:"driverId" bson:"driver_id" gorm:"not null;size:36;index"`
	Status    AllocationStatus `json:"status" bson:"status" gorm:"not null;default:allocated"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}

func (Allocation) TableName() string { return "allocations" }

type AllocateDriverRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	DriverID  string `json:"driverId" validate:"required"`
}

type AllocationWithDriver struct {
	Allocation
	Driver *Driver `json:"driver"`
}
