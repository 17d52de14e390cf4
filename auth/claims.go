package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Issuer and Audience are embedded in every token and checked on
// verification, so tokens minted for another deployment never validate
// here.
const (
	Issuer   = "menu-maker"
	Audience = "menu-maker-users"
)

// AuthUser is the public projection of a stored user. It is the only user
// shape that crosses the API boundary; the stored record never does.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenPair is one issued access/refresh token pair. Both are bearer
// capabilities: possession suffices until expiry, and expiry is the only
// termination mechanism (there is no revocation store).
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the access token claim set: subject id plus email.
type AccessClaims struct {
	gojwt.RegisteredClaims
	Email string `json:"email"`
}

// RefreshClaims carries only the subject id. The narrow shape keeps the
// blast radius small if a refresh token leaks.
type RefreshClaims struct {
	gojwt.RegisteredClaims
}

func newRegisteredClaims(subject string, now time.Time, ttl time.Duration) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    Issuer,
		Audience:  gojwt.ClaimStrings{Audience},
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}
}
