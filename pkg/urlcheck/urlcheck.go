// Package urlcheck validates user-supplied URLs before the server fetches
// them (link unfurling). It rejects anything that could reach internal
// infrastructure: non-HTTP schemes, localhost aliases, cloud metadata
// endpoints, and private or otherwise non-routable IP ranges.
package urlcheck

import (
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrBadScheme      = errors.New("URL scheme must be http or https")
	ErrBlockedHost    = errors.New("URL host is not allowed")
	ErrBlockedAddress = errors.New("URL resolves to a blocked address range")
)

// Hostname patterns that are never fetchable regardless of DNS.
var blockedHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^localhost$`),
	regexp.MustCompile(`\.localhost$`),
	regexp.MustCompile(`\.local$`),
	regexp.MustCompile(`\.internal$`),
	regexp.MustCompile(`^metadata\.google\.internal$`),
	regexp.MustCompile(`^metadata\.`),
	regexp.MustCompile(`\.consul$`),
}

// Non-routable / internal ranges (IPv4 and IPv6).
var blockedCIDRs []*net.IPNet

func init() {
	for _, cidr := range []string{
		"0.0.0.0/8",       // "this" network
		"10.0.0.0/8",      // RFC 1918
		"100.64.0.0/10",   // carrier-grade NAT
		"127.0.0.0/8",     // loopback
		"169.254.0.0/16",  // link-local (cloud metadata lives here)
		"172.16.0.0/12",   // RFC 1918
		"192.168.0.0/16",  // RFC 1918
		"198.18.0.0/15",   // benchmarking
		"224.0.0.0/4",     // multicast
		"240.0.0.0/4",     // reserved
		"::1/128",         // IPv6 loopback
		"::/128",          // unspecified
		"fc00::/7",        // unique local
		"fe80::/10",       // link-local
		"ff00::/8",        // multicast
		"::ffff:0:0/96",   // IPv4-mapped, checked again as IPv4 below
		"64:ff9b::/96",    // NAT64
	} {
		_, network, err := net.ParseCIDR(cidr)
		if err == nil {
			blockedCIDRs = append(blockedCIDRs, network)
		}
	}
}

// CheckURL returns nil when the URL is safe to fetch server-side.
func CheckURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrBadScheme
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return ErrInvalidURL
	}

	for _, pattern := range blockedHostPatterns {
		if pattern.MatchString(host) {
			return ErrBlockedHost
		}
	}

	// Literal IP (including bracketed IPv6 and IPv4-mapped forms)
	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return ErrBlockedAddress
		}
	}

	return nil
}

// isBlockedIP reports whether ip falls in a non-routable or internal range.
func isBlockedIP(ip net.IP) bool {
	// Normalize IPv4-mapped IPv6 addresses so 127.0.0.1 can't hide as ::ffff:7f00:1
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	for _, network := range blockedCIDRs {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
