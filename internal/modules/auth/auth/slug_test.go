package auth

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":         "acme-corp",
		"  --Hello, World!": "hello-world",
		"ABC":               "abc",
		"a.b.c":             "a-b-c",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}

	long := Slugify(strings.Repeat("x", 100))
	if len(long) != maxSlugLength {
		t.Fatalf("len = %d", len(long))
	}
	for _, short := range []string{"", "ab", "!!", "中文"} {
		got := Slugify(short)
		if !strings.HasPrefix(got, "t-") || len(got) != 10 {
			t.Fatalf("Slugify(%q) = %q", short, got)
		}
	}
}

func TestSlugCandidates(t *testing.T) {
	got := SlugCandidates("Acme")
	want := []string{"acme", "acme-2", "acme-3", "acme-4", "acme-5"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	for _, s := range SlugCandidates(strings.Repeat("y", 80)) {
		if len(s) > maxSlugLength {
			t.Fatalf("candidate %q too long", s)
		}
	}
}
