package app

import (
	"net"
	"strings"
)

// UnknownNetworkKey groups every peer whose address cannot be
// classified. Mis-grouping them together is deliberate; it is a coarse
// fallback, not a failure.
const UnknownNetworkKey = "unknown"

const mappedV4Prefix = "::ffff:"

// DeriveNetworkKey maps a peer's transport address to a coarse
// same-LAN grouping key. Dotted-quad IPv4 keeps its first three octets
// (a /24-equivalent); colon-separated addresses keep their first four
// non-empty segments.
func DeriveNetworkKey(addr string) string {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, mappedV4Prefix)
	if host == "" {
		return UnknownNetworkKey
	}

	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil && strings.Contains(host, ".") {
		octets := strings.Split(host, ".")
		if len(octets) == 4 {
			return strings.Join(octets[:3], ".")
		}
	}

	if strings.Contains(host, ":") {
		segs := make([]string, 0, 4)
		for _, s := range strings.Split(host, ":") {
			if s == "" {
				continue
			}
			segs = append(segs, s)
			if len(segs) == 4 {
				break
			}
		}
		if len(segs) > 0 {
			return strings.Join(segs, ":")
		}
	}

	return UnknownNetworkKey
}
