package auth

//go:generate mockgen -destination=mocks/mock_validator.go -package=mocks -source=validator.go TokenValidator

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stacklok/toolhive-search/internal/config"
)

// TokenValidator validates a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (jwt.MapClaims, error)
}

// ValidatorFactory creates token validators from configuration
type ValidatorFactory func(cfg *config.JWTConfig) (TokenValidator, error)

// DefaultValidatorFactory validates HMAC signed tokens with the configured secret
var DefaultValidatorFactory ValidatorFactory = func(cfg *config.JWTConfig) (TokenValidator, error) {
	secret, err := cfg.GetSecret()
	if err != nil {
		return nil, err
	}
	return NewHMACValidator(secret, cfg.Issuer, cfg.Audience)
}

// hmacValidator checks HS256/HS384/HS512 signatures
type hmacValidator struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACValidator creates a validator for tokens signed with secret. Empty
// issuer or audience are not checked.
func NewHMACValidator(secret []byte, issuer, audience string) (TokenValidator, error) {
	if len(secret) == 0 {
		return nil, errors.New("hmac secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &hmacValidator{secret: secret, parser: jwt.NewParser(opts...)}, nil
}

// ValidateToken implements TokenValidator
func (v *hmacValidator) ValidateToken(_ context.Context, token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
