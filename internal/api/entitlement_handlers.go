package api

import (
	"net/http"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
)

// handleGetEntitlements returns the current entitlement with usage counts.
func (s *Server) handleGetEntitlements(w http.ResponseWriter, r *http.Request) {
	status, err := s.entitlementService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, status, s.logger)
}

// handleUnlockEntitlements records the lifetime unlock. Idempotent.
func (s *Server) handleUnlockEntitlements(w http.ResponseWriter, r *http.Request) {
	status, err := s.entitlementService.Unlock(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, status, s.logger)
}
