package mqtt

import "fmt"

// Topic prefixes for announcer publications.
//
// All topics use the flat scheme: stripfish/{category}/{id}/{leaf}
const (
	// TopicPrefix is the base for all announcer topics.
	TopicPrefix = "stripfish"

	// TopicPrefixSystem is the base for service lifecycle topics.
	TopicPrefixSystem = "stripfish/system"

	// TopicPrefixOutlet is the base for per-outlet state topics.
	TopicPrefixOutlet = "stripfish/outlet"
)

// Topics provides builders for announcer MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.OutletState(3)
//	// Returns: "stripfish/outlet/3/state"
type Topics struct{}

// SystemStatus returns the service lifecycle topic. Online and graceful
// offline messages are published here, and the LWT targets it too.
//
// Example: stripfish/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// OutletState returns the retained state topic for one outlet.
//
// Example: stripfish/outlet/3/state
func (Topics) OutletState(id int) string {
	return fmt.Sprintf("%s/%d/state", TopicPrefixOutlet, id)
}

// StripState returns the topic for whole-strip snapshots published after
// discovery and reconnection.
//
// Example: stripfish/strip/state
func (Topics) StripState() string {
	return TopicPrefix + "/strip/state"
}
