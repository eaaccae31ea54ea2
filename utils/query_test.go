package utils

import (
	"errors"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw    string
		kind   QueryKind
		value  string
		tld    string
		suffix string
	}{
		{"Google.COM", QueryDomain, "google.com", "com", "com"},
		{"https://www.example.co.uk/path", QueryDomain, "example.co.uk", "uk", "co.uk"},
		{"cnnic.cn.", QueryDomain, "cnnic.cn", "cn", "cn"},
		{"8.8.8.8", QueryIPv4, "8.8.8.8", "", ""},
		{"2001:4860:4860::8888", QueryIPv6, "2001:4860:4860::8888", "", ""},
		{"as15169", QueryASN, "AS15169", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q, err := ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Kind != tt.kind || q.Value != tt.value || q.TLD != tt.tld || q.Suffix != tt.suffix {
				t.Errorf("ParseQuery(%q) = %+v", tt.raw, q)
			}
		})
	}
}

func TestParseQueryInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a domain", "-bad-.com", "localhost"} {
		if _, err := ParseQuery(raw); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("ParseQuery(%q) err = %v, want ErrInvalidQuery", raw, err)
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	if !IsValidDomain("example.com") || IsValidDomain("8.8.8.8") {
		t.Error("IsValidDomain mismatch")
	}
}

func TestBuildCacheKey(t *testing.T) {
	got := BuildCacheKey("whois", "parts", "https://Example.com/x")
	if got != "whois:parts:example.com" {
		t.Errorf("key = %q", got)
	}
	if len(ShortHash10("abc")) != 10 {
		t.Error("short hash length")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncate me", 8, "truncate..."},
		{"注册商信息", 4, "注..."},
		{"注册商信息", 6, "注册..."},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
