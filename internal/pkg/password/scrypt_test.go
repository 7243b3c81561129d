package password

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	for _, pw := range []string{"correct horse battery staple", "pässwörd-ü", " "} {
		record, err := Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q): %v", pw, err)
		}
		if !Verify(pw, record) {
			t.Errorf("Verify(%q) = false, want true", pw)
		}
		if Verify(pw+"x", record) {
			t.Errorf("Verify accepted a different password for %q", pw)
		}
	}
}

func TestHashRecordFormat(t *testing.T) {
	record, err := Hash("secret-password")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(record, "$")
	if len(parts) != 6 {
		t.Fatalf("record has %d fields: %q", len(parts), record)
	}
	if parts[0] != "scrypt" || parts[1] != "16384" || parts[2] != "8" || parts[3] != "1" {
		t.Errorf("unexpected header fields: %v", parts[:4])
	}

	again, err := Hash("secret-password")
	if err != nil {
		t.Fatal(err)
	}
	if again == record {
		t.Error("two hashes of the same password share a salt")
	}
}

func TestVerifyMalformedRecords(t *testing.T) {
	good, err := Hash("pw-12345678")
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":          "",
		"too few fields": strings.Join(parts[:5], "$"),
		"too many":       good + "$extra",
		"wrong algo":     "bcrypt$" + strings.Join(parts[1:], "$"),
		"non numeric N":  strings.Join([]string{parts[0], "abc", parts[2], parts[3], parts[4], parts[5]}, "$"),
		"zero r":         strings.Join([]string{parts[0], parts[1], "0", parts[3], parts[4], parts[5]}, "$"),
		"bad salt":       strings.Join([]string{parts[0], parts[1], parts[2], parts[3], "!!!", parts[5]}, "$"),
		"bad key":        strings.Join([]string{parts[0], parts[1], parts[2], parts[3], parts[4], "!!!"}, "$"),
	}
	for name, record := range cases {
		if Verify("pw-12345678", record) {
			t.Errorf("%s: Verify returned true", name)
		}
	}
}
