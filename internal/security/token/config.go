package token

import (
	"os"
	"strings"
	"time"
)

// MinSecretBytes is the minimum signing secret length.
// 32 bytes matches the HMAC-SHA256 output size; shorter keys weaken the MAC.
const MinSecretBytes = 32

// Config defines the token subsystem configuration.
//
// All three of Secret, Issuer and Audience are required at startup. A
// missing or short secret must abort the process before any request is
// served; the alternative (an unsigned or weakly-signed token) is never
// acceptable.
type Config struct {
	// Secret is the shared HMAC-SHA256 signing key, used as raw bytes.
	Secret []byte

	// Issuer is the value of the "iss" claim.
	Issuer string

	// Audience is the value of the "aud" claim.
	Audience string

	// AccessTokenTTL is the token lifetime; expiry is always issued-at + TTL.
	AccessTokenTTL time.Duration
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - TASKD_JWT_SECRET (>= 32 bytes)
//   - TASKD_JWT_ISSUER
//   - TASKD_JWT_AUDIENCE
//
// Optional:
//   - TASKD_JWT_ACCESS_TTL (Go duration, default 1h)
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		AccessTokenTTL: time.Hour,
	}

	secret := strings.TrimSpace(os.Getenv("TASKD_JWT_SECRET"))
	if secret == "" {
		return Config{}, ErrSecretMissing
	}
	// Measure bytes (not runes) because the key is used as raw bytes.
	if len(secret) < MinSecretBytes {
		return Config{}, ErrSecretTooShort
	}
	cfg.Secret = []byte(secret)

	cfg.Issuer = strings.TrimSpace(os.Getenv("TASKD_JWT_ISSUER"))
	if cfg.Issuer == "" {
		return Config{}, ErrConfig
	}

	cfg.Audience = strings.TrimSpace(os.Getenv("TASKD_JWT_AUDIENCE"))
	if cfg.Audience == "" {
		return Config{}, ErrConfig
	}

	if v := os.Getenv("TASKD_JWT_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenTTL = d
	}

	return cfg, nil
}
