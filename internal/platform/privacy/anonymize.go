// Package privacy reduces personal identifiers (Aadhar numbers, client IPs)
// to forms that are safe for logs, spans and metrics.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// AnonymizeIP zeroes the host part of an address: IPv4 keeps the /24 prefix,
// IPv6 keeps the /48 prefix.
//
// Returns "invalid" for unparseable IP addresses, and "unknown" for empty strings.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// MaskIdentifier keeps the last four characters of an unparsed identifier
// and replaces the rest with 'X'. Use it before the value has been validated.
func MaskIdentifier(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return strings.Repeat("X", len(s))
	}
	return strings.Repeat("X", len(s)-4) + s[len(s)-4:]
}

// HashIdentifier returns a short SHA-256 prefix so traces can be correlated
// without carrying the identifier itself.
func HashIdentifier(s string) string {
	if s == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:8])
}
