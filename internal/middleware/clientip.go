// AngelaMos | 2026
// clientip.go

package middleware

import (
	"net"
	"net/http"
	"strings"
)

const (
	CountryHeader   = "CF-IPCountry"
	UnknownLocation = "Unknown"
)

// ClientIP trusts the last X-Forwarded-For hop, the one appended by our own
// proxy, then X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Country is the coarse location set by the CDN edge.
func Country(r *http.Request) string {
	if c := strings.TrimSpace(r.Header.Get(CountryHeader)); c != "" {
		return c
	}
	return UnknownLocation
}
