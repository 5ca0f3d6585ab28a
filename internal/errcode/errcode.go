package errcode

// Machine-readable error codes returned in the {error, code} envelope.
// The HTTP status communicates the class of failure; the code narrows it
// down for clients that branch on specific conditions.
const (
	ValidationError = "VALIDATION_ERROR"
	NotFound        = "NOT_FOUND"
	Conflict        = "CONFLICT"
	Upstream        = "UPSTREAM_FAILURE"
	Internal        = "INTERNAL"

	// Auth flow specifics, kept distinct so the client can prompt for a
	// resend versus a retype.
	OTPNotFound = "OTP_NOT_FOUND"
	OTPExpired  = "OTP_EXPIRED"
	OTPInvalid  = "INVALID_OTP"
)
