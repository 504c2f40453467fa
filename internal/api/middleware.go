package api

import (
	"net"
	"net/http"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
)

// limitShares rejects clients that hammer the share endpoint. Each share
// hits the upstream service, so the limit is enforced before the handler.
func (s *Server) limitShares(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}

		if !s.shareLimiter.Allow(key) {
			response.Error(w, http.StatusTooManyRequests, "Too many share requests", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}
