package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripfish/stripfish/internal/infrastructure/mqtt"
)

// powerControlRequest is the body of an Outlet.PowerControl action.
type powerControlRequest struct {
	PowerState string `json:"PowerState"`
}

// actionResponse is the body returned by successful actions.
type actionResponse struct {
	Status string `json:"status"`
}

// handlePowerControl switches one outlet on or off.
//
// The request body must be a JSON object with PowerState set to "On" or
// "Off". The relay change is synchronous: a 200 response means the device
// acknowledged the new state. Requesting the state the outlet is already in
// succeeds without touching the relay.
func (s *Server) handlePowerControl(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	// Resolve the target before reading the body. A request aimed at an
	// outlet that does not exist is 404 no matter what the body says.
	id, ok := parseOutletID(r)
	if !ok || id >= s.strip.OutletCount() {
		writeNotFound(w, "outlet not found")
		return
	}

	var req powerControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be a JSON object")
		return
	}
	if req.PowerState != "On" && req.PowerState != "Off" {
		writeBadRequest(w, `PowerState must be "On" or "Off"`)
		return
	}
	target := req.PowerState == "On"

	// Read the current relay state first so repeated requests are no-ops.
	current, err := s.strip.Outlet(r.Context(), id)
	if err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	if current.On == target {
		writeJSON(w, http.StatusOK, actionResponse{Status: "success"})
		return
	}

	if err := s.strip.SetOutlet(r.Context(), id, target); err != nil {
		s.writeDeviceError(w, r, err)
		return
	}

	s.logger.Info("outlet power state changed",
		"outlet", id,
		"power_state", req.PowerState,
		"request_id", r.Context().Value(ctxKeyRequestID),
	)

	s.announceOutletState(id, req.PowerState)

	writeJSON(w, http.StatusOK, actionResponse{Status: "success"})
}

// handleResetMetrics acknowledges a metrics reset for one outlet.
//
// The strip keeps no accessible energy counters over this transport, so
// after validating the target the action reports success without any
// device traffic.
func (s *Server) handleResetMetrics(w http.ResponseWriter, r *http.Request) {
	if s.strip == nil {
		writeServiceUnavailable(w, "no power strip connected")
		return
	}

	id, ok := parseOutletID(r)
	if !ok || id >= s.strip.OutletCount() {
		writeNotFound(w, "outlet not found")
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{Status: "success"})
}

// announceOutletState publishes the new outlet state to the MQTT announcer.
// Best effort: a broker failure is logged and never affects the HTTP reply.
func (s *Server) announceOutletState(id int, powerState string) {
	if s.mqtt == nil {
		return
	}

	payload := fmt.Sprintf(
		`{"outlet":%d,"power_state":"%s","timestamp":"%s"}`,
		id, powerState, time.Now().UTC().Format(time.RFC3339),
	)

	topic := mqtt.Topics{}.OutletState(id)
	if err := s.mqtt.PublishRetained(topic, []byte(payload)); err != nil {
		s.logger.Warn("failed to announce outlet state",
			"topic", topic,
			"error", err,
		)
	}
}
