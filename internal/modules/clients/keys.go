package clients

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	authKeyLength  = 128
	authKeyPrefix  = "ck1_"
	maxCodeLength  = 64
	createAttempts = 5
)

// NewAuthKey returns ck1_<unix ms base36, 10 wide>_<base64url random>,
// exactly authKeyLength characters long.
func NewAuthKey(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	if len(ts) < 10 {
		ts = strings.Repeat("0", 10-len(ts)) + ts
	}
	head := authKeyPrefix + ts + "_"
	remaining := authKeyLength - len(head)

	buf := make([]byte, (remaining*3+3)/4+4)
	_, _ = rand.Read(buf)
	return head + base64.RawURLEncoding.EncodeToString(buf)[:remaining]
}

// NewCode returns <clientType>-<8 hex>, cut to 64 characters.
func NewCode(clientType string) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	code := clientType + "-" + hex.EncodeToString(buf)
	if len(code) > maxCodeLength {
		return code[:maxCodeLength]
	}
	return code
}
