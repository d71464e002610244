package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
)

// trustedProxies are the peers whose forwarding headers are honored.
type trustedProxies []netip.Prefix

// parseTrusted accepts CIDRs and bare addresses. Invalid entries are
// logged and skipped.
func parseTrusted(entries []string) trustedProxies {
	var proxies trustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "entry", entry, "error", err)
			continue
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies
}

func (p trustedProxies) contains(addr netip.Addr) bool {
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// clientAddr resolves who sent r: the connecting peer, or for a trusted
// peer the address it forwarded in X-Real-IP or, failing that, the first
// X-Forwarded-For entry. A forwarded value that is not an IP is ignored.
func (p trustedProxies) clientAddr(r *http.Request) (netip.Addr, bool) {
	peer, ok := parseAddr(r.RemoteAddr)
	if !ok || !p.contains(peer) {
		return peer, ok
	}

	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		if addr, ok := parseAddr(rip); ok {
			return addr, true
		}
	} else if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, ok := parseAddr(first); ok {
			return addr, true
		}
	}
	return peer, true
}

// TrustedRealIP rewrites RemoteAddr to the client address without a port.
// Forwarding headers count only when the peer is inside trustedCIDRs, so
// clients cannot dodge the per-IP rate limit with their own X-Real-IP.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	proxies := parseTrusted(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if addr, ok := proxies.clientAddr(r); ok {
				r.RemoteAddr = addr.String()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the client address of r without any port. Unparseable
// addresses are returned as is.
func ClientIP(r *http.Request) string {
	if addr, ok := parseAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	return r.RemoteAddr
}

// parseAddr reads an IP from "host:port" or a bare address.
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
