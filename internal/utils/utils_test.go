package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenCarriesWorkshopClaims(t *testing.T) {
    at, err := NewAccessToken("test-secret", 12, "TECHNICIAN", 4, 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte("test-secret"), nil
    })
    if err != nil || !tok.Valid {
        t.Fatalf("parse token: %v", err)
    }
    claims := tok.Claims.(jwt.MapClaims)
    if claims["role"] != "TECHNICIAN" {
        t.Fatalf("role claim = %v", claims["role"])
    }
    if uint64(claims["sub"].(float64)) != 12 {
        t.Fatalf("sub claim = %v", claims["sub"])
    }
    if uint64(claims["branch_id"].(float64)) != 4 {
        t.Fatalf("branch_id claim = %v", claims["branch_id"])
    }
    if !at.Exp.After(time.Now()) {
        t.Fatal("access token already expired")
    }
}

func TestRefreshTokenHashIsStable(t *testing.T) {
    rt, err := NewRefreshToken(7)
    if err != nil {
        t.Fatalf("NewRefreshToken: %v", err)
    }
    if len(rt.Raw) != 96 {
        t.Fatalf("raw length = %d, want 96 hex chars", len(rt.Raw))
    }
    if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
        t.Fatal("hash should be deterministic")
    }
    other, _ := NewRefreshToken(7)
    if HashRefreshRaw(rt.Raw) == HashRefreshRaw(other.Raw) {
        t.Fatal("distinct tokens should hash differently")
    }
}

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("booth-floor-9", 4)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if !VerifyPassword(hash, "booth-floor-9") {
        t.Fatal("correct password rejected")
    }
    if VerifyPassword(hash, "wrong") {
        t.Fatal("wrong password accepted")
    }
}
