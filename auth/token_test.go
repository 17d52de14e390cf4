package auth_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/gastoncarriquiry/menu-maker/auth"
)

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(&auth.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

var testUser = auth.AuthUser{ID: "user-123", Email: "a@x.com"}

func TestCodec_AccessRoundTrip(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.IssueAccess(testUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := codec.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.ID != testUser.ID || got.Email != testUser.Email {
		t.Errorf("expected %+v, got %+v", testUser, got)
	}
}

func TestCodec_RefreshRoundTrip(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.IssueRefresh(testUser.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := codec.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != testUser.ID {
		t.Errorf("expected subject %s, got %s", testUser.ID, subject)
	}
}

func TestCodec_ExpiredTokenFails(t *testing.T) {
	codec := newCodec(t)

	token, err := codec.IssueAccessWithTTL(testUser, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.VerifyAccess(token); err == nil {
		t.Error("zero-ttl access token must fail verification immediately")
	}

	refresh, err := codec.IssueRefreshWithTTL(testUser.ID, 0)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if _, err := codec.VerifyRefresh(refresh); err == nil {
		t.Error("zero-ttl refresh token must fail verification immediately")
	}
}

func TestCodec_CrossKindRejection(t *testing.T) {
	codec := newCodec(t)

	access, _ := codec.IssueAccess(testUser)
	refresh, _ := codec.IssueRefresh(testUser.ID)

	if _, err := codec.VerifyRefresh(access); err == nil {
		t.Error("access token must not pass refresh verification")
	}
	if _, err := codec.VerifyAccess(refresh); err == nil {
		t.Error("refresh token must not pass access verification")
	}
}

func TestCodec_ForeignSecretRejected(t *testing.T) {
	codec := newCodec(t)
	other, err := auth.NewCodec(&auth.TokenConfig{
		AccessSecret:  "other-access-secret",
		RefreshSecret: "other-refresh-secret",
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	forged, _ := other.IssueAccess(testUser)
	if _, err := codec.VerifyAccess(forged); err == nil {
		t.Error("token signed under a different secret must not verify")
	}
}

func TestCodec_IssuerAudienceBinding(t *testing.T) {
	codec := newCodec(t)

	sign := func(issuer, audience string) string {
		t.Helper()
		claims := gojwt.RegisteredClaims{
			Subject:   testUser.ID,
			Issuer:    issuer,
			Audience:  gojwt.ClaimStrings{audience},
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).
			SignedString([]byte("test-access-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	tests := []struct {
		name     string
		issuer   string
		audience string
	}{
		{"wrong issuer", "someone-else", auth.Audience},
		{"wrong audience", auth.Issuer, "someone-else-users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := codec.VerifyAccess(sign(tt.issuer, tt.audience)); err == nil {
				t.Error("token bound to a different issuer/audience must not verify")
			}
		})
	}
}

func TestCodec_DistinctTokensInPair(t *testing.T) {
	codec := newCodec(t)

	pair, err := codec.IssuePair(testUser)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("both tokens must be non-empty")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens must be distinct strings")
	}
}

func TestExtractExpiry(t *testing.T) {
	codec := newCodec(t)

	token, _ := codec.IssueAccess(testUser)
	exp, err := auth.ExtractExpiry(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	until := time.Until(exp)
	if until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("expected ~15m to expiry, got %v", until)
	}

	if _, err := auth.ExtractExpiry("garbage"); err == nil {
		t.Error("expected error for a non-token string")
	}
}

func TestNewCodec_ConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  auth.TokenConfig
	}{
		{"missing access secret", auth.TokenConfig{RefreshSecret: "r"}},
		{"missing refresh secret", auth.TokenConfig{AccessSecret: "a"}},
		{"identical secrets", auth.TokenConfig{AccessSecret: "s", RefreshSecret: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.NewCodec(&tt.cfg); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}
