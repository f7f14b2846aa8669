package urlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"public https", "https://example.com/article", nil},
		{"public http", "http://news.ycombinator.com", nil},
		{"public with port", "https://example.com:8443/x", nil},
		{"empty", "", ErrInvalidURL},
		{"whitespace only", "   ", ErrInvalidURL},
		{"no host", "https:///path", ErrInvalidURL},
		{"ftp scheme", "ftp://example.com/file", ErrBadScheme},
		{"file scheme", "file:///etc/passwd", ErrBadScheme},
		{"gopher scheme", "gopher://example.com", ErrBadScheme},
		{"localhost", "http://localhost/admin", ErrBlockedHost},
		{"localhost uppercase", "http://LOCALHOST:8080", ErrBlockedHost},
		{"localhost subdomain", "http://db.localhost", ErrBlockedHost},
		{"dot local", "http://printer.local", ErrBlockedHost},
		{"dot internal", "http://vault.corp.internal", ErrBlockedHost},
		{"gcp metadata", "http://metadata.google.internal/computeMetadata/v1/", ErrBlockedHost},
		{"metadata prefix", "http://metadata.aws.example", ErrBlockedHost},
		{"trailing dot host", "http://localhost./x", ErrBlockedHost},
		{"loopback ip", "http://127.0.0.1:6379", ErrBlockedAddress},
		{"loopback range", "http://127.8.9.1", ErrBlockedAddress},
		{"aws metadata ip", "http://169.254.169.254/latest/meta-data/", ErrBlockedAddress},
		{"rfc1918 10", "http://10.0.0.5", ErrBlockedAddress},
		{"rfc1918 172", "http://172.16.0.1", ErrBlockedAddress},
		{"rfc1918 192", "http://192.168.1.1/router", ErrBlockedAddress},
		{"cgnat", "http://100.64.0.1", ErrBlockedAddress},
		{"zero network", "http://0.0.0.0", ErrBlockedAddress},
		{"ipv6 loopback", "http://[::1]:8080", ErrBlockedAddress},
		{"ipv6 unique local", "http://[fd00::1]", ErrBlockedAddress},
		{"ipv6 link local", "http://[fe80::1]", ErrBlockedAddress},
		{"ipv4 mapped loopback", "http://[::ffff:127.0.0.1]", ErrBlockedAddress},
		{"public ipv4", "http://93.184.216.34", nil},
		{"public ipv6", "http://[2606:2800:220:1:248:1893:25c8:1946]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckURL(tt.url)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
