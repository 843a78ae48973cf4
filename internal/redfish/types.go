package redfish

// Link is a reference to another resource by its canonical URI.
type Link struct {
	ODataID string `json:"@odata.id"`
}

// Status is the standard Redfish state/health pair carried by every resource.
type Status struct {
	State  string `json:"State"`
	Health string `json:"Health"`
}

// statusEnabled is the Status reported by healthy static resources.
var statusEnabled = Status{State: "Enabled", Health: "OK"}

// Collection is the generic Redfish member-list document.
type Collection struct {
	ODataContext string `json:"@odata.context"`
	ODataID      string `json:"@odata.id"`
	ODataType    string `json:"@odata.type"`
	Name         string `json:"Name"`
	Description  string `json:"Description,omitempty"`
	Count        int    `json:"Members@odata.count"`
	Members      []Link `json:"Members"`
}

// newCollection builds a collection document with Count kept equal to
// len(members) by construction.
func newCollection(context, id, odataType, name string, members []Link) Collection {
	if members == nil {
		members = []Link{}
	}
	return Collection{
		ODataContext: context,
		ODataID:      id,
		ODataType:    odataType,
		Name:         name,
		Count:        len(members),
		Members:      members,
	}
}

// ServiceRoot is the /redfish/v1/ document.
type ServiceRoot struct {
	ODataContext   string          `json:"@odata.context"`
	ODataID        string          `json:"@odata.id"`
	ODataType      string          `json:"@odata.type"`
	ID             string          `json:"Id"`
	Name           string          `json:"Name"`
	RedfishVersion string          `json:"RedfishVersion"`
	UUID           string          `json:"UUID"`
	Chassis        Link            `json:"Chassis"`
	Systems        Link            `json:"Systems"`
	Managers       Link            `json:"Managers"`
	Links          ServiceRootLink `json:"Links"`
}

// ServiceRootLink holds the service root's Links block.
type ServiceRootLink struct {
	Sessions Link `json:"Sessions"`
}

// Chassis is the /redfish/v1/Chassis/PowerStrip document.
type Chassis struct {
	ODataContext   string       `json:"@odata.context"`
	ODataID        string       `json:"@odata.id"`
	ODataType      string       `json:"@odata.type"`
	ID             string       `json:"Id"`
	Name           string       `json:"Name"`
	ChassisType    string       `json:"ChassisType"`
	Manufacturer   string       `json:"Manufacturer"`
	Model          string       `json:"Model"`
	SerialNumber   string       `json:"SerialNumber"`
	PartNumber     string       `json:"PartNumber"`
	Status         Status       `json:"Status"`
	PowerState     string       `json:"PowerState"`
	Power          Link         `json:"Power"`
	PowerSubsystem Link         `json:"PowerSubsystem"`
	Links          ChassisLinks `json:"Links"`
}

// ChassisLinks holds the chassis Links block.
type ChassisLinks struct {
	ManagedBy []Link `json:"ManagedBy"`
}

// Power is the legacy /Power document with one PowerControl entry per outlet.
type Power struct {
	ODataContext string         `json:"@odata.context"`
	ODataID      string         `json:"@odata.id"`
	ODataType    string         `json:"@odata.type"`
	ID           string         `json:"Id"`
	Name         string         `json:"Name"`
	PowerControl []PowerControl `json:"PowerControl"`
	ControlCount int            `json:"PowerControl@odata.count"`
}

// PowerControl is one member of the Power document's PowerControl array.
type PowerControl struct {
	ODataID            string `json:"@odata.id"`
	MemberID           string `json:"MemberId"`
	Name               string `json:"Name"`
	PowerConsumedWatts int    `json:"PowerConsumedWatts"`
	PowerCapacityWatts int    `json:"PowerCapacityWatts"`
	Status             Status `json:"Status"`
}

// PowerSubsystem is the /PowerSubsystem document.
type PowerSubsystem struct {
	ODataContext  string `json:"@odata.context"`
	ODataID       string `json:"@odata.id"`
	ODataType     string `json:"@odata.type"`
	ID            string `json:"Id"`
	Name          string `json:"Name"`
	Status        Status `json:"Status"`
	PowerSupplies Link   `json:"PowerSupplies"`
	OutletGroups  Link   `json:"OutletGroups"`
}

// PowerSupply is the /PowerSupplies/0 document (the strip's AC input).
type PowerSupply struct {
	ODataContext     string `json:"@odata.context"`
	ODataID          string `json:"@odata.id"`
	ODataType        string `json:"@odata.type"`
	ID               string `json:"Id"`
	Name             string `json:"Name"`
	Status           Status `json:"Status"`
	PowerSupplyType  string `json:"PowerSupplyType"`
	LineInputVoltage int    `json:"LineInputVoltage"`
	Model            string `json:"Model"`
	Manufacturer     string `json:"Manufacturer"`
}

// OutletGroup is the /OutletGroups/All document spanning every outlet.
type OutletGroup struct {
	ODataContext string           `json:"@odata.context"`
	ODataID      string           `json:"@odata.id"`
	ODataType    string           `json:"@odata.type"`
	ID           string           `json:"Id"`
	Name         string           `json:"Name"`
	Status       Status           `json:"Status"`
	CreatedBy    string           `json:"CreatedBy"`
	PowerEnabled bool             `json:"PowerEnabled"`
	PowerState   string           `json:"PowerState"`
	Links        OutletGroupLinks `json:"Links"`
}

// OutletGroupLinks lists the group's member outlets with a count.
type OutletGroupLinks struct {
	Outlets []Link `json:"Outlets"`
	Count   int    `json:"Outlets@odata.count"`
}

// Outlet is the per-outlet document.
type Outlet struct {
	ODataContext             string        `json:"@odata.context"`
	ODataID                  string        `json:"@odata.id"`
	ODataType                string        `json:"@odata.type"`
	ID                       string        `json:"Id"`
	Name                     string        `json:"Name"`
	Status                   Status        `json:"Status"`
	PhaseWiringType          string        `json:"PhaseWiringType"`
	VoltageType              string        `json:"VoltageType"`
	OutletType               string        `json:"OutletType"`
	RatedCurrentAmps         int           `json:"RatedCurrentAmps"`
	NominalVoltage           string        `json:"NominalVoltage"`
	PowerEnabled             bool          `json:"PowerEnabled"`
	PowerState               string        `json:"PowerState"`
	PowerCycleDelaySeconds   int           `json:"PowerCycleDelaySeconds"`
	PowerOnDelaySeconds      int           `json:"PowerOnDelaySeconds"`
	PowerOffDelaySeconds     int           `json:"PowerOffDelaySeconds"`
	PowerRestoreDelaySeconds int           `json:"PowerRestoreDelaySeconds"`
	PowerRestorePolicy       string        `json:"PowerRestorePolicy"`
	Voltage                  VoltageSensor `json:"Voltage"`
	Actions                  OutletActions `json:"Actions"`
	Links                    OutletLinks   `json:"Links"`
}

// VoltageSensor is the outlet's voltage reading block (placeholder values;
// the HS300 exposes no accessible per-outlet voltage telemetry).
type VoltageSensor struct {
	Reading       int    `json:"Reading"`
	DataSourceURI string `json:"DataSourceUri"`
}

// OutletActions enumerates the actions an outlet supports.
type OutletActions struct {
	PowerControl PowerControlAction `json:"#Outlet.PowerControl"`
	ResetMetrics ResetMetricsAction `json:"#Outlet.ResetMetrics"`
}

// PowerControlAction describes the PowerControl action target and the
// allowed PowerState values.
type PowerControlAction struct {
	Target          string   `json:"target"`
	AllowableValues []string `json:"PowerState@Redfish.AllowableValues"`
}

// ResetMetricsAction describes the ResetMetrics action target.
type ResetMetricsAction struct {
	Target string `json:"target"`
}

// OutletLinks holds the outlet's Links block.
type OutletLinks struct {
	BranchCircuit Link `json:"BranchCircuit"`
}

// SessionService is the inert /SessionService placeholder document.
type SessionService struct {
	ODataContext   string `json:"@odata.context"`
	ODataID        string `json:"@odata.id"`
	ODataType      string `json:"@odata.type"`
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Description    string `json:"Description"`
	Status         Status `json:"Status"`
	ServiceEnabled bool   `json:"ServiceEnabled"`
	SessionTimeout int    `json:"SessionTimeout"`
	Sessions       Link   `json:"Sessions"`
}

// Manager is the /Managers/BMC document.
type Manager struct {
	ODataContext    string       `json:"@odata.context"`
	ODataID         string       `json:"@odata.id"`
	ODataType       string       `json:"@odata.type"`
	ID              string       `json:"Id"`
	Name            string       `json:"Name"`
	ManagerType     string       `json:"ManagerType"`
	Status          Status       `json:"Status"`
	UUID            string       `json:"UUID"`
	Model           string       `json:"Model"`
	FirmwareVersion string       `json:"FirmwareVersion"`
	Links           ManagerLinks `json:"Links"`
}

// ManagerLinks holds the manager's Links block.
type ManagerLinks struct {
	ManagerForChassis []Link `json:"ManagerForChassis"`
}

// Versions is the /redfish version discovery document.
type Versions struct {
	V1 string `json:"v1"`
}
