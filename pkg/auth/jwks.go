package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidAudience is returned when the token was minted for another service.
	ErrInvalidAudience = errors.New("invalid token audience")

	// ErrUntrustedIssuer is returned when the iss claim has no configured JWKS endpoint.
	ErrUntrustedIssuer = errors.New("untrusted token issuer")

	// ErrUnexpectedAlgorithm is returned for tokens not signed with RSA.
	ErrUnexpectedAlgorithm = errors.New("unexpected token signing algorithm")
)

// JWKSClientInterface validates identity-provider tokens.
type JWKSClientInterface interface {
	// ValidateToken returns the claims of a token accepted for this service.
	ValidateToken(tokenString string) (*Claims, error)
	Close()
}

// JWKSConfig configures token validation.
type JWKSConfig struct {
	// EnableVerification turns on signature checks. When false, tokens are
	// decoded without verification (local development only).
	EnableVerification bool
	// JWKSEndpoints maps each trusted issuer to its key set URL.
	JWKSEndpoints map[string]string
	// Audience, when set, must appear in the token's aud claim.
	Audience string
}

// JWKSClient checks the signatures of tokens issued by the identity
// providers that sign in teachers and assessors. Each trusted issuer has
// its own key set; a token from any other issuer is refused.
type JWKSClient struct {
	keySets map[string]keyfunc.Keyfunc
	config  *JWKSConfig
}

// NewJWKSClient loads a key set per configured issuer. With verification
// disabled no key set is fetched.
func NewJWKSClient(config *JWKSConfig) (*JWKSClient, error) {
	client := &JWKSClient{
		keySets: make(map[string]keyfunc.Keyfunc, len(config.JWKSEndpoints)),
		config:  config,
	}

	if !config.EnableVerification {
		return client, nil
	}

	for issuer, jwksURL := range config.JWKSEndpoints {
		keySet, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS client for issuer %s: %w", issuer, err)
		}
		client.keySets[issuer] = keySet
	}

	return client, nil
}

// ValidateToken verifies the token's RSA signature against its issuer's key
// set, then checks the audience. Without verification only the audience is
// checked.
func (c *JWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	var claims *Claims
	var err error
	if c.config.EnableVerification {
		claims, err = c.verify(tokenString)
	} else {
		claims, err = c.decode(tokenString)
	}
	if err != nil {
		return nil, err
	}

	if err := c.checkAudience(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *JWKSClient) verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.signingKey)
	if err != nil {
		return nil, fmt.Errorf("token rejected: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("token rejected: unexpected claims type")
	}
	return claims, nil
}

// signingKey resolves the verification key from the issuer's key set.
func (c *JWKSClient) signingKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedAlgorithm, token.Header["alg"])
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	keySet, ok := c.keySets[claims.Issuer]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUntrustedIssuer, claims.Issuer)
	}
	return keySet.KeyfuncCtx(context.Background())(token)
}

// decode parses a token without checking its signature.
func (c *JWKSClient) decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}

func (c *JWKSClient) checkAudience(claims *Claims) error {
	if c.config.Audience == "" {
		return nil
	}
	if !slices.Contains(claims.Audience, c.config.Audience) {
		return ErrInvalidAudience
	}
	return nil
}

// Close is a no-op; keyfunc/v3 refreshes through the default HTTP client and
// holds nothing that needs releasing.
func (c *JWKSClient) Close() {}

var _ JWKSClientInterface = (*JWKSClient)(nil)
