package bridge

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/five82/camview/internal/service"
)

// defaultOrigins admits pages served from this machine only.
var defaultOrigins = []string{
	"http://localhost",
	"http://localhost:*",
	"http://127.0.0.1",
	"http://127.0.0.1:*",
	"http://[::1]",
	"http://[::1]:*",
}

// originPolicy matches browser origins against exact entries and entries
// with a single "*" wildcard, the same rules go-chi/cors applies.
type originPolicy struct {
	exact    map[string]bool
	patterns [][2]string // prefix, suffix
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]bool)}
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSpace(o))
		if o == "" {
			continue
		}
		if i := strings.IndexByte(o, '*'); i >= 0 {
			p.patterns = append(p.patterns, [2]string{o[:i], o[i+1:]})
			continue
		}
		p.exact[o] = true
	}
	return p
}

func (p originPolicy) allowed(origin string) bool {
	origin = strings.ToLower(origin)
	if p.exact[origin] {
		return true
	}
	for _, w := range p.patterns {
		if len(origin) >= len(w[0])+len(w[1]) &&
			strings.HasPrefix(origin, w[0]) && strings.HasSuffix(origin, w[1]) {
			return true
		}
	}
	return false
}

// guard refuses requests a browser sent from a page outside the policy.
// CORS alone only hides the reply; simple requests would still run.
// Requests without an Origin header (curl, the CLI) pass.
func (p originPolicy) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !p.allowed(origin) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(service.Result{Error: "Origin not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
