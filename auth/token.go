package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// TokenConfig configures the token codec. Access and refresh tokens are
// signed with independent secrets, so leaking one secret does not forge
// the other token kind.
type TokenConfig struct {
	// AccessSecret signs access tokens (HS256).
	AccessSecret string `yaml:"access_secret" mapstructure:"access_secret"`

	// RefreshSecret signs refresh tokens (HS256).
	RefreshSecret string `yaml:"refresh_secret" mapstructure:"refresh_secret"`

	// AccessTTL is the access token lifetime (default: 15m).
	AccessTTL time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`

	// RefreshTTL is the refresh token lifetime (default: 168h).
	RefreshTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`
}

// ApplyDefaults fills zero-valued TTLs with the standard lifetimes.
func (c *TokenConfig) ApplyDefaults() {
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
}

// Validate checks required fields.
func (c *TokenConfig) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("token: access secret is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("token: refresh secret is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("token: access and refresh secrets must differ")
	}
	return nil
}

// Codec signs and verifies the compact tokens the auth service issues.
// Verification is a pure signature-and-claims check; no revocation list
// is consulted because none exists.
type Codec struct {
	cfg TokenConfig
}

// NewCodec creates a token codec from config.
func NewCodec(cfg *TokenConfig) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: *cfg}, nil
}

// IssuePair mints a fresh access/refresh pair for the user.
func (c *Codec) IssuePair(user AuthUser) (TokenPair, error) {
	access, err := c.IssueAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints an access token with the configured TTL.
func (c *Codec) IssueAccess(user AuthUser) (string, error) {
	return c.IssueAccessWithTTL(user, c.cfg.AccessTTL)
}

// IssueAccessWithTTL mints an access token with an explicit TTL.
func (c *Codec) IssueAccessWithTTL(user AuthUser, ttl time.Duration) (string, error) {
	claims := &AccessClaims{
		RegisteredClaims: newRegisteredClaims(user.ID, time.Now(), ttl),
		Email:            user.Email,
	}
	return c.sign(claims, c.cfg.AccessSecret)
}

// IssueRefresh mints a refresh token with the configured TTL.
func (c *Codec) IssueRefresh(subjectID string) (string, error) {
	return c.IssueRefreshWithTTL(subjectID, c.cfg.RefreshTTL)
}

// IssueRefreshWithTTL mints a refresh token with an explicit TTL.
func (c *Codec) IssueRefreshWithTTL(subjectID string, ttl time.Duration) (string, error) {
	claims := &RefreshClaims{
		RegisteredClaims: newRegisteredClaims(subjectID, time.Now(), ttl),
	}
	return c.sign(claims, c.cfg.RefreshSecret)
}

// VerifyAccess checks signature, expiry, issuer, and audience, returning
// the embedded identity. Any failure collapses into a single error.
func (c *Codec) VerifyAccess(token string) (AuthUser, error) {
	claims := &AccessClaims{}
	if err := c.parse(token, claims, c.cfg.AccessSecret); err != nil {
		return AuthUser{}, fmt.Errorf("token: verify access: %w", err)
	}
	return AuthUser{ID: claims.Subject, Email: claims.Email}, nil
}

// VerifyRefresh performs the same checks against the refresh secret and
// returns the subject id.
func (c *Codec) VerifyRefresh(token string) (string, error) {
	claims := &RefreshClaims{}
	if err := c.parse(token, claims, c.cfg.RefreshSecret); err != nil {
		return "", fmt.Errorf("token: verify refresh: %w", err)
	}
	return claims.Subject, nil
}

// ExtractExpiry decodes the expiry claim without verifying the signature.
// This backs the client-side advisory validity check only; the
// authoritative check is always server-side verification.
func ExtractExpiry(token string) (time.Time, error) {
	claims := &gojwt.RegisteredClaims{}
	parser := gojwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("token: decode expiry: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token: no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}

func (c *Codec) sign(claims gojwt.Claims, secret string) (string, error) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func (c *Codec) parse(tokenString string, claims gojwt.Claims, secret string) error {
	keyFunc := func(token *gojwt.Token) (interface{}, error) {
		if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return []byte(secret), nil
	}

	token, err := gojwt.ParseWithClaims(tokenString, claims, keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithAudience(Audience),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
