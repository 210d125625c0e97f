// Package utils contains small helper functions used across the project.
//
// These are generic string helpers that don't belong to a specific domain.
package utils

import (
	"net/netip"
	"unicode/utf8"
)

// FirstNonEmpty returns the first value that is not the empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// TruncateRunes cuts s to at most max characters, never splitting a
// multi-byte character.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateIP reduces an address to its network prefix: /24 for IPv4 and
// /64 for IPv6. Values that do not parse are returned unchanged.
//
//	"203.0.113.5" -> "203.0.113.0/24"
func TruncateIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}

	bits := 64
	if addr.Unmap().Is4() {
		addr = addr.Unmap()
		bits = 24
	}

	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return ip
	}
	return prefix.String()
}
