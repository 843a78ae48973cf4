// Package mqtt provides the optional MQTT state announcer.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Retained outlet state publications
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is a one-way announcement channel layered beside the HTTP API. The
// server publishes retained outlet state after every successful relay change
// so dashboards and automations can track the strip without polling the
// Redfish tree. Nothing is consumed from the broker: commands arrive over
// HTTP only, and the announcer is disabled by default.
//
//	HTTP client ──> API server ──> power strip
//	                    │
//	                    └──> MQTT broker (retained state, LWT)
//
// # Topics
//
//   - stripfish/system/status: online/offline lifecycle, retained
//   - stripfish/outlet/{id}/state: per-outlet power state, retained
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.OutletState(3)
//	client.PublishRetained(topic, []byte(`{"power_state":"On"}`))
package mqtt
