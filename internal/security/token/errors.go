package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidToken is returned when a token fails signature verification,
	// is expired, carries the wrong issuer/audience, or is missing required
	// claims. Callers must not distinguish these cases to clients.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSecretMissing is returned when the signing secret is not configured.
	ErrSecretMissing = errors.New("token signing secret missing")

	// ErrSecretTooShort is returned when the signing secret is under the
	// minimum byte length for HMAC-SHA256.
	ErrSecretTooShort = errors.New("token signing secret too short")

	// ErrConfig is returned for otherwise invalid configuration.
	ErrConfig = errors.New("invalid token config")
)
