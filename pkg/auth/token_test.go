package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/chylers/storefront-api/pkg/config"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:               "secret",
		Issuer:               "chylers-api",
		ExpirationMinutes:    30,
		ResetTokenTTLMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Email:  "kai@example.com",
		Role:   enums.UserRoleAdmin,
		JTI:    "jti-1",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Email != "kai@example.com" {
		t.Fatalf("unexpected email %s", claims.Email)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("expected jti to be preserved, got %s", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("expected expired token to parse for refresh: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected invalid role error")
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	token, err := MintResetToken(cfg, time.Now(), userID, "reset-1")
	if err != nil {
		t.Fatalf("mint reset token: %v", err)
	}

	claims, err := ParseResetToken(cfg, token)
	if err != nil {
		t.Fatalf("parse reset token: %v", err)
	}
	if claims.UserID != userID || claims.ID != "reset-1" {
		t.Fatalf("unexpected reset claims %+v", claims)
	}

	exp := time.Now().Add(time.Hour)
	if diff := claims.ExpiresAt.Sub(exp); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("expected reset token to expire in an hour, got %v", claims.ExpiresAt)
	}
}

func TestResetAndAccessTokensAreNotInterchangeable(t *testing.T) {
	cfg := testJWTConfig()
	access, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseResetToken(cfg, access); err == nil {
		t.Fatal("access token must not redeem a password reset")
	}

	reset, err := MintResetToken(cfg, time.Now(), uuid.New(), "reset-2")
	if err != nil {
		t.Fatalf("mint reset token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, reset); err == nil {
		t.Fatal("reset token must not authenticate requests")
	}
}
