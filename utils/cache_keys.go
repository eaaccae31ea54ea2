package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const cacheKeyPrefix = "whoisrecord"

// ShortHash10 returns a short 10-hex digest for identifying long strings in keys.
func ShortHash10(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:10]
}

// sanitizeKeyPart normalizes a key segment: trims, lowers, replaces spaces, and bounds length.
func sanitizeKeyPart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	// URL-like segments are reduced to their host
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.Contains(s, "/") {
		s = SanitizeDomain(s)
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) > 80 {
		s = s[:80] + "~" + ShortHash10(s)
	}
	return s
}

// BuildCacheKey joins parts with ':' after sanitizing each part consistently.
func BuildCacheKey(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	sanitized := make([]string, 0, len(parts))
	for _, p := range parts {
		sanitized = append(sanitized, sanitizeKeyPart(p))
	}
	return strings.Join(sanitized, ":")
}

// PartsCacheKey raw parts fetched for one query, whichever provider answered.
func PartsCacheKey(q Query) string {
	return BuildCacheKey(cacheKeyPrefix, "parts", string(q.Kind), q.Value)
}

// RateLimitKey per-client counter key for the redis limiter.
func RateLimitKey(scope, client string) string {
	return BuildCacheKey(cacheKeyPrefix, "ratelimit", scope, client)
}
