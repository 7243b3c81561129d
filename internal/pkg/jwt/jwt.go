// Package jwt signs and verifies compact HS256 tokens.
//
// Verify checks the signature and header only. Expiry and claim shape are
// left to callers; see ParseGlobalClaims and ParseTenantClaims.
package jwt

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("invalid token")

var parser = jwtlib.NewParser(
	jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	jwtlib.WithoutClaimsValidation(),
	jwtlib.WithStrictDecoding(),
	jwtlib.WithJSONNumber(),
)

// Sign returns header.payload.signature with header {"alg":"HS256","typ":"JWT"}.
func Sign(secret []byte, claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the decoded claims when token carries a valid HS256 signature
// under secret. Numbers decode as json.Number.
func Verify(secret []byte, token string) (jwtlib.MapClaims, error) {
	parsed, err := parser.Parse(token, func(*jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if typ, _ := parsed.Header["typ"].(string); typ != "JWT" {
		return nil, fmt.Errorf("%w: unexpected typ header", ErrInvalidToken)
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	return claims, nil
}
