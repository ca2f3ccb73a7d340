package repositories

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by every backend when the requested row is absent.
var ErrNotFound = errors.New("not found")

const (
	FieldEmail         = "email"
	FieldPhoneNumber   = "phoneNumber"
	FieldLicenseNumber = "licenseNumber"
	FieldBookingID     = "bookingId"
	FieldToken         = "token"
)

// DuplicateKeyError reports a uniqueness violation on Field.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return e.Field + " already exists"
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// IsDuplicateKey reports whether err is a uniqueness violation on field.
func IsDuplicateKey(err error, field string) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup) && dup.Field == field
}

// mongoDuplicateKey maps a Mongo E11000 error to a DuplicateKeyError using the
// index names declared in indexes.go. It returns nil for any other error.
func mongoDuplicateKey(err error, indexFields map[string]string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	for index, field := range indexFields {
		if strings.Contains(msg, index) {
			return &DuplicateKeyError{Field: field, Err: err}
		}
	}
	return &DuplicateKeyError{Field: "unknown", Err: err}
}
