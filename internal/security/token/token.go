package token

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Claims is the validated identity envelope extracted from a token.
// After Validate succeeds, UserID and Email are the caller's trusted
// identity for the remainder of the request.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// wireClaims is the on-the-wire claim set.
//
// The user id travels as both "sub" and "nameid", and the email as both
// "email" and "emailaddress", so that clients reading either the registered
// or the legacy claim names keep working.
type wireClaims struct {
	NameID       string `json:"nameid,omitempty"`
	Email        string `json:"email,omitempty"`
	EmailAddress string `json:"emailaddress,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and validates HMAC-SHA256 signed identity tokens.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewManager builds a Manager from Config.
//
// It re-checks the secret even when the config came from LoadConfigFromEnv:
// a Manager must never exist with a weak or absent key.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretMissing
	}
	if len(cfg.Secret) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}
	if strings.TrimSpace(cfg.Issuer) == "" || strings.TrimSpace(cfg.Audience) == "" {
		return nil, ErrConfig
	}

	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Manager{
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}, nil
}

// Issue mints a signed token for an already-verified identity.
// The caller is responsible for credential verification; Issue performs none.
//
// Expiry is always exactly issued-at + TTL. The "jti" claim carries a fresh
// ULID so two tokens for the same identity are bit-distinct even when issued
// within the same second.
func (m *Manager) Issue(userID, email string, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, ErrConfig
	}

	now = now.UTC()
	exp := now.Add(m.ttl)

	jti, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := wireClaims{
		NameID:       userID,
		Email:        email,
		EmailAddress: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate parses and authenticates a token at the given instant.
//
// It rejects signature mismatches, expiry at or past now, wrong
// issuer/audience, non-HS256 algorithms, and missing subject claims — all
// as ErrInvalidToken. No clock skew is compensated: a token valid at second
// S and invalid at S+1 past expiry is correct behavior.
func (m *Manager) Validate(tokenString string, now time.Time) (Claims, error) {
	wc := &wireClaims{}

	_, err := jwt.ParseWithClaims(tokenString, wc,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now.UTC() }),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	userID := wc.Subject
	if userID == "" {
		userID = wc.NameID
	}
	if userID == "" {
		return Claims{}, ErrInvalidToken
	}

	email := wc.Email
	if email == "" {
		email = wc.EmailAddress
	}

	out := Claims{
		UserID: userID,
		Email:  email,
	}
	if wc.IssuedAt != nil {
		out.IssuedAt = wc.IssuedAt.Time
	}
	if wc.ExpiresAt != nil {
		out.ExpiresAt = wc.ExpiresAt.Time
	}
	return out, nil
}
