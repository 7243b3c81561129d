package session

import (
	"fmt"
	"time"

	"github.com/aben/console/internal/config"
	jwtpkg "github.com/aben/console/internal/pkg/jwt"
)

// Config is resolved once at startup and shared by the issuer and the guard.
type Config struct {
	Secret    []byte
	GlobalTTL time.Duration
	TenantTTL time.Duration
}

// NewConfig validates the signing secret and lifetimes.
func NewConfig(secret string, globalTTL, tenantTTL time.Duration) (Config, error) {
	if len(secret) < config.MinJWTSecretLength {
		return Config{}, fmt.Errorf("jwt secret must be at least %d bytes", config.MinJWTSecretLength)
	}
	if globalTTL <= 0 || tenantTTL <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive")
	}
	return Config{Secret: []byte(secret), GlobalTTL: globalTTL, TenantTTL: tenantTTL}, nil
}

// FromAuthConfig builds a Config from the loaded application config.
func FromAuthConfig(c config.AuthConfig) (Config, error) {
	return NewConfig(c.JWTSecret, c.GlobalTTL(), c.TenantTTL())
}

// VerifyGlobalToken checks the signature then the global claim shape. The
// error wraps jwt.ErrInvalidToken or jwt.ErrInvalidClaims.
func (c Config) VerifyGlobalToken(token string) (jwtpkg.GlobalClaims, error) {
	raw, err := jwtpkg.Verify(c.Secret, token)
	if err != nil {
		return jwtpkg.GlobalClaims{}, err
	}
	return jwtpkg.ParseGlobalClaims(raw)
}

// VerifyTenantToken checks the signature then the tenant claim shape.
func (c Config) VerifyTenantToken(token string) (jwtpkg.TenantClaims, error) {
	raw, err := jwtpkg.Verify(c.Secret, token)
	if err != nil {
		return jwtpkg.TenantClaims{}, err
	}
	return jwtpkg.ParseTenantClaims(raw)
}
