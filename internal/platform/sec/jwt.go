// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the credential code of the API: RS256 access tokens,
bcrypt password hashes and the account roles.

Tokens carry everything [middleware.Authenticate] needs, so a request from a
screen is authorized without touching the database.
*/
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("sec: invalid token")

// clockSkew tolerates small clock differences between API replicas.
const clockSkew = 30 * time.Second

// AuthClaims is the payload of an access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// TokenService signs and verifies access tokens with one RSA key pair.
type TokenService struct {
	signingKey *rsa.PrivateKey
	verifyKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
}

// NewTokenService loads the PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	var pems [2][]byte
	for i, path := range []string{privateKeyPath, publicKeyPath} {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("sec: read key: %w", err)
		}
		pems[i] = raw
	}
	return NewTokenServiceFromPEM(pems[0], pems[1], issuer)
}

// NewTokenServiceFromPEM builds the service from in-memory keys. Tests use it
// with generated pairs.
func NewTokenServiceFromPEM(privateKeyPEM, publicKeyPEM []byte, issuer string) (*TokenService, error) {
	signingKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: private key: %w", err)
	}
	verifyKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: public key: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	)

	return &TokenService{signingKey: signingKey, verifyKey: verifyKey, issuer: issuer, parser: parser}, nil
}

// GenerateAccessToken signs a token for accountID valid for timeToLive.
func (service *TokenService) GenerateAccessToken(accountID, email, role string, timeToLive time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID: accountID,
		Email:  email,
		Role:   role,
	})

	signed, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the claims of a valid token. Every failure wraps
// [ErrInvalidToken].
func (service *TokenService) VerifyToken(raw string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	_, err := service.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return service.verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return claims, nil
}
