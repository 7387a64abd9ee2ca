package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractToken extracts the JWT token from an Authorization header value.
// Supports "Bearer <token>" format.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("empty authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}

// TokenIssuer issues and verifies caller bearer tokens carrying capability
// scopes. Scopes are additive tags; there is no hierarchy or wildcard.
type TokenIssuer struct {
	SecretKey   []byte
	TokenExpiry time.Duration // Default: 2 hours
}

// NewTokenIssuer creates a token issuer with the given HS256 secret.
func NewTokenIssuer(secretKey string, expiry time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}

	if expiry == 0 {
		expiry = 2 * time.Hour
	}

	return &TokenIssuer{
		SecretKey:   []byte(secretKey),
		TokenExpiry: expiry,
	}, nil
}

// Claims represents the JWT token claims, scopes included.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Issue signs a token for subject with the given scopes. A non-zero expiry
// overrides the issuer default.
func (a *TokenIssuer) Issue(subject string, scopes []string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = a.TokenExpiry
	}

	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "caregate",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.SecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the claims.
func (a *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.SecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// MissingScopes returns the required scopes absent from granted, in the
// order they were required.
func MissingScopes(granted, required []string) []string {
	have := make(map[string]bool, len(granted))
	for _, s := range granted {
		have[s] = true
	}

	var missing []string
	for _, s := range required {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

// HasScope reports whether granted contains scope.
func HasScope(granted []string, scope string) bool {
	return len(MissingScopes(granted, []string{scope})) == 0
}
