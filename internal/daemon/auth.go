package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"taiyaku/internal/logging"
)

// requireToken wraps next with bearer-token checking. An empty api.token
// leaves the API open.
func (s *apiServer) requireToken(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	want := []byte(token)
	return func(w http.ResponseWriter, r *http.Request) {
		got, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			s.logger.Debug("rejected api request",
				logging.String("path", r.URL.Path),
				logging.String("remote", r.RemoteAddr),
				logging.Bool("had_token", ok))
			w.Header().Set("WWW-Authenticate", `Bearer realm="taiyaku"`)
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, value, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
