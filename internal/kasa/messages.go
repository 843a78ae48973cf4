package kasa

import (
	"encoding/json"
	"fmt"
)

// sysinfoRequest is the JSON command querying full device state.
// The same payload serves TCP queries and UDP discovery probes.
const sysinfoRequest = `{"system":{"get_sysinfo":{}}}`

// Wire structures as defined by Kasa device firmware.

// deviceResponse is the top-level envelope of every device reply.
type deviceResponse struct {
	System systemResponse `json:"system"`
}

type systemResponse struct {
	Sysinfo  *SysInfo   `json:"get_sysinfo"`
	SetRelay *cmdResult `json:"set_relay_state"`
}

// cmdResult is the generic acknowledgement carried by mutation replies.
type cmdResult struct {
	ErrCode int    `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// SysInfo is the device state document returned by get_sysinfo.
type SysInfo struct {
	SWVersion  string  `json:"sw_ver"`
	HWVersion  string  `json:"hw_ver"`
	Model      string  `json:"model"`
	DeviceID   string  `json:"deviceId"`
	Alias      string  `json:"alias"`
	MAC        string  `json:"mac"`
	RelayState int     `json:"relay_state"`
	ChildNum   int     `json:"child_num"`
	Children   []Child `json:"children"`
	ErrCode    int     `json:"err_code"`
}

// Child is one outlet entry in a strip's sysinfo children array.
type Child struct {
	ID    string `json:"id"`
	State int    `json:"state"`
	Alias string `json:"alias"`
}

// setRelayRequest builds the JSON command switching one or more outlets.
// The context block scopes the relay command to specific children; without
// it the firmware would switch the whole strip.
func setRelayRequest(childIDs []string, on bool) ([]byte, error) {
	state := 0
	if on {
		state = 1
	}

	req := map[string]any{
		"context": map[string]any{
			"child_ids": childIDs,
		},
		"system": map[string]any{
			"set_relay_state": map[string]any{
				"state": state,
			},
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding set_relay_state: %w", err)
	}
	return data, nil
}

// parseResponse decodes a decrypted device reply.
func parseResponse(plain []byte) (*deviceResponse, error) {
	var resp deviceResponse
	if err := json.Unmarshal(plain, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// childDeviceID returns the full child identifier used for command scoping.
// Older firmware reports the full id in sysinfo; newer firmware reports only
// the two-digit suffix, which must be prefixed with the strip's device id.
func childDeviceID(deviceID string, child Child) string {
	if len(child.ID) <= 2 {
		return deviceID + child.ID
	}
	return child.ID
}
