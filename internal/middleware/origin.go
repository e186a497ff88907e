package myMiddleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// OriginGuard decides whether a connection's declared origin is on the
// configured allow-list. The same guard backs both surfaces: the WebSocket
// upgrader (denial terminates the connection) and the HTTP query interface
// (denial returns 403).
type OriginGuard struct {
	allowAll bool
	allowed  map[string]struct{}
}

// NewOriginGuard builds a guard from a list of origin patterns. Entries are
// normalized to lowercase scheme://host; "*" allows every origin; entries
// that don't parse are logged and ignored.
func NewOriginGuard(origins []string) *OriginGuard {
	g := &OriginGuard{
		allowed: make(map[string]struct{}, len(origins)),
	}

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			g.allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Printf("ignoring invalid origin in configuration: %q", origin)
			continue
		}
		g.allowed[normalized] = struct{}{}
	}

	return g
}

// Allow reports whether the origin is acceptable. An empty origin is
// allowed: non-browser clients (curl, health probes, server-side tools)
// send none, while browser cross-site requests always carry one.
func (g *OriginGuard) Allow(origin string) bool {
	if origin == "" || g.allowAll {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, exists := g.allowed[normalized]
	return exists
}

// CheckRequest adapts the guard to the websocket.Upgrader CheckOrigin hook.
func (g *OriginGuard) CheckRequest(r *http.Request) bool {
	if g.Allow(r.Header.Get("Origin")) {
		return true
	}
	log.Printf("blocked websocket connection from disallowed origin %q", r.Header.Get("Origin"))
	return false
}

// Handle is the HTTP middleware form of the guard for the read-only query
// interface. Denied requests get a 403 and never reach the handler.
func (g *OriginGuard) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allow(r.Header.Get("Origin")) {
			log.Printf("blocked request to %s from disallowed origin %q", r.URL.Path, r.Header.Get("Origin"))
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
