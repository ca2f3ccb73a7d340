package models

import (
	"time"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// User is an employee who registers with a phone number and must be
// approved by an administrator before booking rides.
type User struct {
	ID             string     `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name           string     `json:"name" bson:"name" gorm:"not null"`
	Email          string     `json:"email" bson:"email" gorm:"not null;uniqueIndex:idx_users_email"`
	PhoneNumber    string     `json:"phoneNumber" bson:"phone_number" gorm:"not null;uniqueIndex:idx_users_phone_number"`
	EmployeeNumber string     `json:"employeeNumber" bson:"employee_number" gorm:"not null"`
	Department     string     `json:"department" bson:"department" gorm:"not null"`
	Status         UserStatus `json:"status" bson:"status" gorm:"not null;default:pending;index"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
}

func (User) TableName() string { return "users" }

type RegisterUserRequest struct {
	Name           string `json:"name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,min=7,max=20"`
	EmployeeNumber string `json:"employeeNumber" validate:"required,max=40"`
	Department     string `json:"department" validate:"required,max=80"`
}

type UpdateUserStatusRequest struct {
	ID     string     `json:"id" validate:"required"`
	Status UserStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// UserSummary is the public projection returned on login.
type UserSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
