package identity

import (
	"taskd/internal/security/password"
)

// HashPassword returns a PHC-style Argon2id hash string, applying the
// store's password policy (env-tunable, min length 8 baseline).
//
// Policy violations surface as the password package's sentinel errors so the
// API layer can turn them into field-level validation errors.
func HashPassword(plain string) (string, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		// Invalid env is an operational error, not a weak fallback.
		return "", err
	}
	if cfg.Policy.MinLength < 8 {
		cfg.Policy.MinLength = 8
	}
	return cfg.Hash(plain)
}

// VerifyPassword checks a password against a PHC Argon2id hash.
func VerifyPassword(plain, encodedPHC string) (bool, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return false, err
	}
	return cfg.Verify(encodedPHC, plain)
}

// DummyHash produces a hash used purely for timing-resistant login checks
// when the email does not exist. Never stored.
func DummyHash() string {
	cfg, err := password.FromEnv()
	if err != nil {
		cfg = password.DefaultConfig()
	}
	h, err := cfg.Hash("dummy-password-for-timing-only")
	if err != nil {
		return ""
	}
	return h
}
