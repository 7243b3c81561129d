package jwt

import (
	"encoding/json"
	"errors"
	"math"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	TypeGlobal = "global"
	TypeTenant = "tenant"
)

// ErrInvalidClaims is returned when a verified payload does not have the expected shape.
var ErrInvalidClaims = errors.New("invalid token claims")

// GlobalClaims identify a signed-in user.
type GlobalClaims struct {
	Subject   string
	ID        string
	IssuedAt  int64
	ExpiresAt int64
}

// TenantClaims identify a user acting inside a tenant.
type TenantClaims struct {
	Subject   string
	TenantID  string
	ID        string
	IssuedAt  int64
	ExpiresAt int64
}

func (c GlobalClaims) Map() jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"typ": TypeGlobal,
		"sub": c.Subject,
		"jti": c.ID,
		"iat": c.IssuedAt,
		"exp": c.ExpiresAt,
	}
}

func (c TenantClaims) Map() jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"typ": TypeTenant,
		"sub": c.Subject,
		"tid": c.TenantID,
		"jti": c.ID,
		"iat": c.IssuedAt,
		"exp": c.ExpiresAt,
	}
}

// ParseGlobalClaims requires typ=global, non-empty sub and jti, numeric iat and exp.
func ParseGlobalClaims(m jwtlib.MapClaims) (GlobalClaims, error) {
	if str(m, "typ") != TypeGlobal {
		return GlobalClaims{}, ErrInvalidClaims
	}
	sub, jti := str(m, "sub"), str(m, "jti")
	iat, okIat := num(m, "iat")
	exp, okExp := num(m, "exp")
	if sub == "" || jti == "" || !okIat || !okExp {
		return GlobalClaims{}, ErrInvalidClaims
	}
	return GlobalClaims{Subject: sub, ID: jti, IssuedAt: iat, ExpiresAt: exp}, nil
}

// ParseTenantClaims requires typ=tenant, non-empty sub, tid and jti, numeric iat and exp.
func ParseTenantClaims(m jwtlib.MapClaims) (TenantClaims, error) {
	if str(m, "typ") != TypeTenant {
		return TenantClaims{}, ErrInvalidClaims
	}
	sub, tid, jti := str(m, "sub"), str(m, "tid"), str(m, "jti")
	iat, okIat := num(m, "iat")
	exp, okExp := num(m, "exp")
	if sub == "" || tid == "" || jti == "" || !okIat || !okExp {
		return TenantClaims{}, ErrInvalidClaims
	}
	return TenantClaims{Subject: sub, TenantID: tid, ID: jti, IssuedAt: iat, ExpiresAt: exp}, nil
}

func str(m jwtlib.MapClaims, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m jwtlib.MapClaims, key string) (int64, bool) {
	var f float64
	switch v := m[key].(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
