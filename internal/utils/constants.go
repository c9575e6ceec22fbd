package utils

const (
	OrganizationName = "OpenListings"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// Listing pagination bounds.
	DefaultPageSize = 12
	MaxPageSize     = 50

	// Login lockout.
	MaxFailedLoginAttempts = 5
	LockoutMinutes         = 15

	// Verification codes.
	VerificationCodeLength     = 6
	VerificationCodeTTLMinutes = 10
)
