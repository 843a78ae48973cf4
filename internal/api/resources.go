package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stripfish/stripfish/internal/redfish"
)

// handleVersions serves the /redfish version discovery document.
func (s *Server) handleVersions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderVersions())
}

// handleServiceRoot serves the service root. Always available, device or not.
func (s *Server) handleServiceRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderServiceRoot())
}

// handleMetadata serves the static $metadata schema document.
func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response
	w.Write([]byte(redfish.RenderMetadata()))
}

func (s *Server) handleChassisCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderChassisCollection())
}

// handleChassis serves the chassis document from a fresh device query.
func (s *Server) handleChassis(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	snap, err := s.strip.Snapshot(r.Context())
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderChassis(snap))
}

// handlePower serves the legacy Power document from a fresh device query.
func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	snap, err := s.strip.Snapshot(r.Context())
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderPower(snap))
}

// handlePowerSubsystem serves the power subsystem document. The rendered
// body is static, but the subsystem describes live hardware, so it answers
// 503 without a device handle like the rest of the chassis internals.
func (s *Server) handlePowerSubsystem(w http.ResponseWriter, _ *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderPowerSubsystem())
}

func (s *Server) handlePowerSupplyCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderPowerSupplyCollection())
}

// handlePowerSupply serves the AC input supply from a fresh device query.
func (s *Server) handlePowerSupply(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	snap, err := s.strip.Snapshot(r.Context())
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderPowerSupply(snap))
}

func (s *Server) handleOutletGroupCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderOutletGroupCollection())
}

// handleOutletGroup serves the all-outlets group. The member list depends on
// the outlet count, which is fixed at connect time; no device round-trip.
func (s *Server) handleOutletGroup(w http.ResponseWriter, _ *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderOutletGroup(s.strip.OutletCount()))
}

// handleOutletCollection serves the outlet collection in topology order.
func (s *Server) handleOutletCollection(w http.ResponseWriter, _ *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderOutletCollection(s.strip.OutletCount()))
}

// handleOutlet serves one outlet document from a fresh device query.
//
// The device check runs before id parsing: with no strip attached there is
// no topology to validate an id against, so every outlet path answers 503.
func (s *Server) handleOutlet(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	id, ok := parseOutletID(r)
	if !ok {
		writeNotFound(w, "outlet not found")
		return
	}

	state, err := s.strip.Outlet(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, redfish.RenderOutlet(state))
}

func (s *Server) handleSystemsCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderSystemsCollection())
}

func (s *Server) handleManagerCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderManagerCollection())
}

func (s *Server) handleManager(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderManager())
}

func (s *Server) handleSessionService(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderSessionService())
}

func (s *Server) handleSessionCollection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, redfish.RenderSessionCollection())
}

// parseOutletID extracts and validates the outlet id path segment.
// Only plain non-negative decimal integers are accepted; anything else is
// treated as a nonexistent resource.
func parseOutletID(r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
