package jwt

import (
	"errors"
	"testing"
	"time"

	"smartplanning/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "manager", "team-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("expected UserID=user-1, got %s", claims.UserID)
	}
	if claims.Role != "manager" {
		t.Errorf("expected Role=manager, got %s", claims.Role)
	}
	if claims.TeamID != "team-1" {
		t.Errorf("expected TeamID=team-1, got %s", claims.TeamID)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected TokenType=access, got %s", claims.TokenType)
	}
	if claims.Issuer != "smartplanning" {
		t.Errorf("expected Issuer=smartplanning, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI must not be empty")
	}
}

func TestGenerateRefreshToken_Default(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1", "employee", "team-1", false)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.TokenType != "refresh" {
		t.Errorf("expected TokenType=refresh, got %s", claims.TokenType)
	}
	if claims.RememberMe {
		t.Error("expected RememberMe=false")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("default refresh TTL should be about 24h, got %v", ttl)
	}
}

func TestGenerateRefreshToken_RememberMe(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1", "employee", "team-1", true)
	if err != nil {
		t.Fatalf("GenerateRefreshToken(rememberMe): %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if !claims.RememberMe {
		t.Error("expected RememberMe=true")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("remember-me refresh TTL should be about 7d, got %v", ttl)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "a-completely-different-secret-key",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", "manager", "team-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -1 * time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", "manager", "team-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got: %v", err)
	}
}
