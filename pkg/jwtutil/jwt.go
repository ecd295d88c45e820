package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var secret = []byte("demosecretkey")

// Initialize sets the signing key used for session tokens
func Initialize(signingKey string) {
	if signingKey != "" {
		secret = []byte(signingKey)
	}
}

// SessionClaims represents the claims carried by the credential cookie
type SessionClaims struct {
	Email    string `json:"email"`
	UserID   int    `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a session token for the demo backend's cookie
func GenerateToken(email string, userID int, fullName, role string, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		Email:    email,
		UserID:   userID,
		FullName: fullName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses a session token
func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// InspectExpiry reads the expiry of a legacy bearer token without verifying
// its signature. The client only uses this to decide whether the superseded
// token path is worth sending at all; the backend remains the authority.
func InspectExpiry(tokenString string) (time.Time, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(tokenString, claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
