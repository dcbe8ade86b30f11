package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testConfig() Config {
	return Config{
		Secret:         []byte("0123456789abcdef0123456789abcdef"),
		Issuer:         "taskd",
		Audience:       "taskd-clients",
		AccessTokenTTL: time.Hour,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestNewManager_SecretRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Secret = nil
	if _, err := NewManager(cfg); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}

	cfg = testConfig()
	cfg.Secret = []byte("short")
	if _, err := NewManager(cfg); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}

	cfg = testConfig()
	cfg.Issuer = ""
	if _, err := NewManager(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	signed, exp, err := m.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if want := now.Add(time.Hour); !exp.Equal(want) {
		t.Fatalf("exp = %v, want issued-at + 1h (%v)", exp, want)
	}

	claims, err := m.Validate(signed, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.UserID != "01USER" {
		t.Fatalf("UserID = %q, want %q", claims.UserID, "01USER")
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("Email = %q, want alice@example.com", claims.Email)
	}
}

func TestIssue_TokensAreDistinct(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	a, _, err := m.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, _, err := m.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens issued for the same identity must be bit-distinct")
	}
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	m := newTestManager(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	signed, exp, err := m.Issue("01USER", "alice@example.com", issued)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Validate(signed, exp.Add(-time.Second)); err != nil {
		t.Fatalf("token must validate before expiry: %v", err)
	}
	if _, err := m.Validate(signed, exp); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token must be rejected at T >= expiry, got %v", err)
	}
	if _, err := m.Validate(signed, exp.Add(time.Second)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token must be rejected past expiry, got %v", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	signed, _, err := m.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip each character of the signature segment in turn; every variant
	// must fail.
	dot := strings.LastIndexByte(signed, '.')
	if dot < 0 {
		t.Fatalf("malformed token: %q", signed)
	}
	for i := dot + 1; i < len(signed); i++ {
		b := []byte(signed)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := m.Validate(string(b), now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("tampered signature at offset %d accepted", i)
		}
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	signed, _, err := m.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	rotated := testConfig()
	rotated.Secret = []byte("fedcba9876543210fedcba9876543210")
	m2, err := NewManager(rotated)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	if _, err := m2.Validate(signed, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with a different secret must reject, got %v", err)
	}
}

func TestValidate_MissingSubject(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	// Well-formed, correctly signed token with no subject claim at all.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "taskd",
		"aud":   "taskd-clients",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": "alice@example.com",
	})
	signed, err := raw.SignedString(testConfig().Secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	if _, err := m.Validate(signed, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token without subject must reject, got %v", err)
	}
}

func TestValidate_WrongIssuerOrAudience(t *testing.T) {
	other := testConfig()
	other.Issuer = "someone-else"
	m2, err := NewManager(other)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	now := time.Now().UTC()

	signed, _, err := m2.Issue("01USER", "alice@example.com", now)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	m := newTestManager(t)
	if _, err := m.Validate(signed, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token with wrong issuer must reject, got %v", err)
	}
}

func TestValidate_LegacyClaimNamesAccepted(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":          "taskd",
		"aud":          "taskd-clients",
		"iat":          now.Unix(),
		"exp":          now.Add(time.Hour).Unix(),
		"nameid":       "01USER",
		"emailaddress": "alice@example.com",
	})
	signed, err := raw.SignedString(testConfig().Secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	claims, err := m.Validate(signed, now)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.UserID != "01USER" || claims.Email != "alice@example.com" {
		t.Fatalf("legacy claims not honored: %+v", claims)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TASKD_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TASKD_JWT_ISSUER", "taskd")
	t.Setenv("TASKD_JWT_AUDIENCE", "taskd-clients")
	t.Setenv("TASKD_JWT_ACCESS_TTL", "30m")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv error: %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("ttl = %v, want 30m", cfg.AccessTokenTTL)
	}

	t.Setenv("TASKD_JWT_SECRET", "")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}

	t.Setenv("TASKD_JWT_SECRET", "too-short")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
}
