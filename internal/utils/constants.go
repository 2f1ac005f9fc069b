package utils

import "time"

const (
	AppName    = "GoRent"
	AppVersion = "1.0.0"

	StatusSuccess = "success"
	StatusError   = "error"

	// Booking constants
	MaxBookingDays   = 90
	DefaultCurrency  = "INR"
	ReceiptPrefix    = "rcpt_"
	MaxMessageLength = 1000

	// Janitor defaults: unpaid approved bookings are reclaimed after the
	// grace window, checked once per sweep interval.
	DefaultSweepInterval = 60 * time.Second
	DefaultGraceWindow   = 3 * time.Minute

	// Nearby vehicle search
	DefaultSearchRadiusMeters = 50000.0
	MaxSearchRadiusMeters     = 200000.0

	// Cache TTLs
	VehicleCacheTTL = 15 * time.Minute
)
