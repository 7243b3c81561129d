package jwt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignVerifyRoundTrip(t *testing.T) {
	global := GlobalClaims{Subject: "user-1", ID: "jti-1", IssuedAt: 1700000000, ExpiresAt: 1702592000}
	token, err := Sign(testSecret, global.Map())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := Verify(testSecret, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	got, err := ParseGlobalClaims(claims)
	if err != nil {
		t.Fatalf("ParseGlobalClaims: %v", err)
	}
	if got != global {
		t.Errorf("round trip = %+v, want %+v", got, global)
	}

	tenant := TenantClaims{Subject: "user-1", TenantID: "tenant-1", ID: "jti-2", IssuedAt: 1700000000, ExpiresAt: 1700003600}
	token, err = Sign(testSecret, tenant.Map())
	if err != nil {
		t.Fatal(err)
	}
	claims, err = Verify(testSecret, token)
	if err != nil {
		t.Fatal(err)
	}
	gotTenant, err := ParseTenantClaims(claims)
	if err != nil {
		t.Fatal(err)
	}
	if gotTenant != tenant {
		t.Errorf("round trip = %+v, want %+v", gotTenant, tenant)
	}
}

func TestSignHeaderAndEncoding(t *testing.T) {
	token, err := Sign(testSecret, jwtlib.MapClaims{"a": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(token, "=") {
		t.Errorf("token contains padding: %q", token)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatal(err)
	}
	var header map[string]string
	if err := json.Unmarshal(raw, &header); err != nil {
		t.Fatal(err)
	}
	if header["alg"] != "HS256" || header["typ"] != "JWT" {
		t.Errorf("header = %v", header)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	token, err := Sign(testSecret, GlobalClaims{Subject: "u", ID: "j", IssuedAt: 1, ExpiresAt: 2}.Map())
	if err != nil {
		t.Fatal(err)
	}
	headerLen := strings.Index(token, ".") + 1
	for i := headerLen; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := []byte(token)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		if _, err := Verify(testSecret, string(flipped)); err == nil {
			t.Fatalf("tampered token at index %d verified", i)
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	valid, err := Sign(testSecret, jwtlib.MapClaims{"sub": "u"})
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(valid, ".")
	enc := base64.RawURLEncoding.EncodeToString

	noneHeader := enc([]byte(`{"alg":"none","typ":"JWT"}`))

	cases := map[string]string{
		"empty":          "",
		"two parts":      parts[0] + "." + parts[1],
		"four parts":     valid + ".x",
		"empty sig":      parts[0] + "." + parts[1] + ".",
		"bad json":       enc([]byte("{")) + "." + parts[1] + "." + parts[2],
		"alg none":       noneHeader + "." + parts[1] + "." + parts[2],
		"wrong secret":   "",
		"wrong typ hdr":  "",
		"garbage parts":  "a.b.c",
		"padded payload": parts[0] + "." + parts[1] + "==." + parts[2],
	}

	other, err := Sign([]byte("ffffffffffffffffffffffffffffffff"), jwtlib.MapClaims{"sub": "u"})
	if err != nil {
		t.Fatal(err)
	}
	cases["wrong secret"] = other

	wrongTypToken := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"sub": "u"})
	wrongTypToken.Header["typ"] = "JWS"
	signedWrongTyp, err := wrongTypToken.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	cases["wrong typ hdr"] = signedWrongTyp

	for name, tok := range cases {
		if _, err := Verify(testSecret, tok); err == nil {
			t.Errorf("%s: expected failure", name)
		} else if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: error %v does not wrap ErrInvalidToken", name, err)
		}
	}
}

func TestVerifyIgnoresExpiry(t *testing.T) {
	token, err := Sign(testSecret, GlobalClaims{Subject: "u", ID: "j", IssuedAt: 1, ExpiresAt: 2}.Map())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(testSecret, token); err != nil {
		t.Fatalf("expired claims should still verify: %v", err)
	}
}

func TestParseClaimsShape(t *testing.T) {
	cases := []struct {
		name   string
		claims jwtlib.MapClaims
		global bool
		tenant bool
	}{
		{"global ok", jwtlib.MapClaims{"typ": "global", "sub": "u", "jti": "j", "iat": json.Number("1"), "exp": json.Number("2")}, true, false},
		{"tenant ok", jwtlib.MapClaims{"typ": "tenant", "sub": "u", "tid": "t", "jti": "j", "iat": json.Number("1"), "exp": json.Number("2")}, false, true},
		{"missing sub", jwtlib.MapClaims{"typ": "global", "jti": "j", "iat": json.Number("1"), "exp": json.Number("2")}, false, false},
		{"string iat", jwtlib.MapClaims{"typ": "global", "sub": "u", "jti": "j", "iat": "1", "exp": json.Number("2")}, false, false},
		{"tenant without tid", jwtlib.MapClaims{"typ": "tenant", "sub": "u", "jti": "j", "iat": json.Number("1"), "exp": json.Number("2")}, false, false},
		{"empty jti", jwtlib.MapClaims{"typ": "tenant", "sub": "u", "tid": "t", "jti": "", "iat": json.Number("1"), "exp": json.Number("2")}, false, false},
	}
	for _, tc := range cases {
		_, errG := ParseGlobalClaims(tc.claims)
		_, errT := ParseTenantClaims(tc.claims)
		if (errG == nil) != tc.global {
			t.Errorf("%s: global err = %v", tc.name, errG)
		}
		if (errT == nil) != tc.tenant {
			t.Errorf("%s: tenant err = %v", tc.name, errT)
		}
	}
}
