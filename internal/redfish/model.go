package redfish

import (
	"fmt"

	"github.com/stripfish/stripfish/internal/kasa"
)

// powerStateString converts a relay flag to the Redfish PowerState enum.
func powerStateString(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}

// OutletURI returns the canonical URI of one outlet resource.
func OutletURI(id int) string {
	return fmt.Sprintf("%s/%d", URIOutlets, id)
}

// PowerControlTarget returns the action target URI for an outlet's
// PowerControl action.
func PowerControlTarget(id int) string {
	return OutletURI(id) + "/Actions/Outlet.PowerControl"
}

// ResetMetricsTarget returns the action target URI for an outlet's
// ResetMetrics action.
func ResetMetricsTarget(id int) string {
	return OutletURI(id) + "/Actions/Outlet.ResetMetrics"
}

// RenderVersions renders the /redfish version discovery document.
func RenderVersions() Versions {
	return Versions{V1: URIServiceRoot}
}

// RenderServiceRoot renders the service root. It needs no device state and
// is servable with an absent device handle.
func RenderServiceRoot() ServiceRoot {
	return ServiceRoot{
		ODataContext:   "/redfish/v1/$metadata#ServiceRoot.ServiceRoot",
		ODataID:        URIServiceRoot,
		ODataType:      "#ServiceRoot.v1_5_0.ServiceRoot",
		ID:             "RootService",
		Name:           "Root Service",
		RedfishVersion: redfishVersion,
		UUID:           serviceUUID,
		Chassis:        Link{URIChassisCollection},
		Systems:        Link{URISystems},
		Managers:       Link{URIManagers},
		Links:          ServiceRootLink{Sessions: Link{URISessions}},
	}
}

// RenderMetadata returns the static $metadata XML document.
func RenderMetadata() string {
	return metadataXML
}

// RenderChassisCollection renders the chassis collection (one member).
func RenderChassisCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#ChassisCollection.ChassisCollection",
		URIChassisCollection,
		"#ChassisCollection.ChassisCollection",
		"Chassis Collection",
		[]Link{{URIChassis}},
	)
}

// RenderChassis renders the power strip chassis from a live snapshot.
func RenderChassis(snap *kasa.Snapshot) Chassis {
	return Chassis{
		ODataContext:   "/redfish/v1/$metadata#Chassis.Chassis",
		ODataID:        URIChassis,
		ODataType:      "#Chassis.v1_10_0.Chassis",
		ID:             "PowerStrip",
		Name:           snap.Alias,
		ChassisType:    chassisType,
		Manufacturer:   chassisManufacturer,
		Model:          snap.Model,
		SerialNumber:   snap.DeviceID,
		PartNumber:     chassisPartNumber,
		Status:         statusEnabled,
		PowerState:     "On",
		Power:          Link{URIPower},
		PowerSubsystem: Link{URIPowerSubsystem},
		Links: ChassisLinks{
			ManagedBy: []Link{{URIManager}},
		},
	}
}

// RenderPower renders the legacy Power document with one PowerControl
// member per outlet, in topology order.
func RenderPower(snap *kasa.Snapshot) Power {
	controls := make([]PowerControl, len(snap.Outlets))
	for i, outlet := range snap.Outlets {
		state := "Disabled"
		if outlet.On {
			state = "Enabled"
		}
		controls[i] = PowerControl{
			ODataID:  fmt.Sprintf("%s#/PowerControl/%d", URIPower, i),
			MemberID: fmt.Sprintf("%d", i),
			Name:     outlet.Alias,
			// The HS300 exposes no per-outlet wattage through this
			// transport; consumed watts stays a placeholder zero.
			PowerConsumedWatts: 0,
			PowerCapacityWatts: outletCapacityWatts,
			Status:             Status{State: state, Health: "OK"},
		}
	}

	return Power{
		ODataContext: "/redfish/v1/$metadata#Power.Power",
		ODataID:      URIPower,
		ODataType:    "#Power.v1_7_0.Power",
		ID:           "Power",
		Name:         "Power",
		PowerControl: controls,
		ControlCount: len(controls),
	}
}

// RenderPowerSubsystem renders the power subsystem container.
func RenderPowerSubsystem() PowerSubsystem {
	return PowerSubsystem{
		ODataContext:  "/redfish/v1/$metadata#PowerSubsystem.PowerSubsystem",
		ODataID:       URIPowerSubsystem,
		ODataType:     "#PowerSubsystem.v1_1_0.PowerSubsystem",
		ID:            "PowerSubsystem",
		Name:          "Power Subsystem",
		Status:        statusEnabled,
		PowerSupplies: Link{URIPowerSupplies},
		OutletGroups:  Link{URIOutletGroups},
	}
}

// RenderPowerSupplyCollection renders the power supply collection
// (a single AC input).
func RenderPowerSupplyCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#PowerSupplyCollection.PowerSupplyCollection",
		URIPowerSupplies,
		"#PowerSupplyCollection.PowerSupplyCollection",
		"Power Supply Collection",
		[]Link{{URIPowerSupply}},
	)
}

// RenderPowerSupply renders the strip's AC input supply.
func RenderPowerSupply(snap *kasa.Snapshot) PowerSupply {
	return PowerSupply{
		ODataContext:     "/redfish/v1/$metadata#PowerSupply.PowerSupply",
		ODataID:          URIPowerSupply,
		ODataType:        "#PowerSupply.v1_5_0.PowerSupply",
		ID:               "0",
		Name:             "AC Input",
		Status:           statusEnabled,
		PowerSupplyType:  "AC",
		LineInputVoltage: lineInputVoltage,
		Model:            snap.Model,
		Manufacturer:     chassisManufacturer,
	}
}

// RenderOutletGroupCollection renders the outlet group collection
// (a single "All" group).
func RenderOutletGroupCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#OutletGroupCollection.OutletGroupCollection",
		URIOutletGroups,
		"#OutletGroupCollection.OutletGroupCollection",
		"Outlet Group Collection",
		[]Link{{URIOutletGroupAll}},
	)
}

// RenderOutletGroup renders the group spanning all n outlets.
func RenderOutletGroup(n int) OutletGroup {
	outlets := make([]Link, n)
	for i := range outlets {
		outlets[i] = Link{OutletURI(i)}
	}

	return OutletGroup{
		ODataContext: "/redfish/v1/$metadata#OutletGroup.OutletGroup",
		ODataID:      URIOutletGroupAll,
		ODataType:    "#OutletGroup.v1_1_0.OutletGroup",
		ID:           "All",
		Name:         "All Outlets",
		Status:       statusEnabled,
		CreatedBy:    "System",
		PowerEnabled: true,
		PowerState:   "On",
		Links: OutletGroupLinks{
			Outlets: outlets,
			Count:   len(outlets),
		},
	}
}

// RenderOutletCollection renders the collection of all n outlets in
// topology order.
func RenderOutletCollection(n int) Collection {
	members := make([]Link, n)
	for i := range members {
		members[i] = Link{OutletURI(i)}
	}

	return newCollection(
		"/redfish/v1/$metadata#OutletCollection.OutletCollection",
		URIOutlets,
		"#OutletCollection.OutletCollection",
		"Outlet Collection",
		members,
	)
}

// RenderOutlet renders one outlet document from its live state. PowerState
// reflects the snapshot taken for this request; nothing is cached.
func RenderOutlet(st kasa.OutletState) Outlet {
	uri := OutletURI(st.Index)

	return Outlet{
		ODataContext:     "/redfish/v1/$metadata#Outlet.Outlet",
		ODataID:          uri,
		ODataType:        "#Outlet.v1_4_0.Outlet",
		ID:               fmt.Sprintf("%d", st.Index),
		Name:             st.Alias,
		Status:           statusEnabled,
		PhaseWiringType:  outletPhaseWiring,
		VoltageType:      outletVoltageType,
		OutletType:       outletType,
		RatedCurrentAmps: outletRatedAmps,
		NominalVoltage:   outletNominalVolts,
		PowerEnabled:     st.On,
		PowerState:       powerStateString(st.On),
		// Delay settings are placeholders: the HS300 applies relay
		// changes immediately and has no restore delay configuration.
		PowerCycleDelaySeconds:   0,
		PowerOnDelaySeconds:      0,
		PowerOffDelaySeconds:     0,
		PowerRestoreDelaySeconds: 0,
		PowerRestorePolicy:       "LastState",
		Voltage: VoltageSensor{
			Reading:       lineInputVoltage,
			DataSourceURI: uri + "/Sensors/Voltage",
		},
		Actions: OutletActions{
			PowerControl: PowerControlAction{
				Target:          PowerControlTarget(st.Index),
				AllowableValues: []string{"On", "Off"},
			},
			ResetMetrics: ResetMetricsAction{
				Target: ResetMetricsTarget(st.Index),
			},
		},
		Links: OutletLinks{
			BranchCircuit: Link{URIPowerSupply},
		},
	}
}

// RenderSessionService renders the inert session service placeholder.
func RenderSessionService() SessionService {
	return SessionService{
		ODataContext:   "/redfish/v1/$metadata#SessionService.SessionService",
		ODataID:        URISessionService,
		ODataType:      "#SessionService.v1_1_7.SessionService",
		ID:             "SessionService",
		Name:           "Session Service",
		Description:    "Session Service",
		Status:         statusEnabled,
		ServiceEnabled: true,
		SessionTimeout: 3600,
		Sessions:       Link{URISessions},
	}
}

// RenderSessionCollection renders the (always empty) session collection.
func RenderSessionCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#SessionCollection.SessionCollection",
		URISessions,
		"#SessionCollection.SessionCollection",
		"Session Collection",
		nil,
	)
}

// RenderSystemsCollection renders the (always empty) computer system
// collection; a power strip manages no systems.
func RenderSystemsCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#ComputerSystemCollection.ComputerSystemCollection",
		URISystems,
		"#ComputerSystemCollection.ComputerSystemCollection",
		"Computer System Collection",
		nil,
	)
}

// RenderManagerCollection renders the manager collection (one BMC).
func RenderManagerCollection() Collection {
	return newCollection(
		"/redfish/v1/$metadata#ManagerCollection.ManagerCollection",
		URIManagers,
		"#ManagerCollection.ManagerCollection",
		"Manager Collection",
		[]Link{{URIManager}},
	)
}

// RenderManager renders the BMC manager document.
func RenderManager() Manager {
	return Manager{
		ODataContext:    "/redfish/v1/$metadata#Manager.Manager",
		ODataID:         URIManager,
		ODataType:       "#Manager.v1_5_0.Manager",
		ID:              "BMC",
		Name:            "Stripfish Manager",
		ManagerType:     "BMC",
		Status:          statusEnabled,
		UUID:            managerUUID,
		Model:           managerModel,
		FirmwareVersion: managerFirmware,
		Links: ManagerLinks{
			ManagerForChassis: []Link{{URIChassis}},
		},
	}
}
