package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Account Metrics
	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_users_registered_total",
		Help: "Total number of employee registrations.",
	})
	UserStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_user_status_changes_total",
		Help: "Total number of admin decisions on user accounts.",
	}, []string{"status"})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"kind", "status"}) // kind: "admin" or "user"; status: "success" or "failed"
	TokensRevokedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_tokens_revoked_total",
		Help: "Total number of tokens revoked on logout.",
	}, []string{"kind"})

	// OTP Metrics
	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_issued_total",
		Help: "Total number of one-time passcodes issued, by delivery outcome.",
	}, []string{"status"})
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_verifications_total",
		Help: "Total number of one-time passcode checks.",
	}, []string{"status"}) // status: "valid" or "invalid"

	// Booking Metrics
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookings_created_total",
		Help: "Total number of booking requests created.",
	})
	BookingStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_booking_status_changes_total",
		Help: "Total number of admin decisions on bookings.",
	}, []string{"status"})
	AllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_allocations_total",
		Help: "Total number of driver allocation attempts.",
	}, []string{"status"}) // status: "allocated", "conflict" or "error"
	DriversCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_drivers_created_total",
		Help: "Total number of drivers created.",
	})
)
