// Package auth verifies identity-provider tokens. This system never issues
// tokens; it only checks signatures against the provider's public key.
package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID string
	Email  string
}

// Validator verifies RS256-signed identity tokens.
type Validator struct {
	publicKey *rsa.PublicKey
}

// NewValidator creates a validator from a PEM-encoded RSA public key.
func NewValidator(publicKey *rsa.PublicKey) *Validator {
	return &Validator{publicKey: publicKey}
}

// NewValidatorFromFile reads the identity provider's public key from a PEM
// file.
func NewValidatorFromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return NewValidator(key), nil
}

// Validate verifies the token's signature and expiry and returns its claims.
// A missing, malformed, expired, or wrongly-signed token is an error; the
// caller decides whether that means "redirect" or "401".
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("no token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		// identity providers commonly put the stable id in "sub"
		userID, ok = claims["sub"].(string)
		if !ok || userID == "" {
			return nil, fmt.Errorf("user id not found in token")
		}
	}

	email, _ := claims["email"].(string)

	return &Claims{UserID: userID, Email: email}, nil
}
