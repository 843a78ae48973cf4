package redfish

// Canonical URIs of the fixed resource hierarchy.
const (
	URIServiceRoot       = "/redfish/v1/"
	URIMetadata          = "/redfish/v1/$metadata"
	URIChassisCollection = "/redfish/v1/Chassis"
	URIChassis           = "/redfish/v1/Chassis/PowerStrip"
	URIPower             = "/redfish/v1/Chassis/PowerStrip/Power"
	URIPowerSubsystem    = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem"
	URIPowerSupplies     = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/PowerSupplies"
	URIPowerSupply       = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/PowerSupplies/0"
	URIOutletGroups      = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/OutletGroups"
	URIOutletGroupAll    = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/OutletGroups/All"
	URIOutlets           = "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/Outlets"
	URISystems           = "/redfish/v1/Systems"
	URIManagers          = "/redfish/v1/Managers"
	URIManager           = "/redfish/v1/Managers/BMC"
	URISessionService    = "/redfish/v1/SessionService"
	URISessions          = "/redfish/v1/SessionService/Sessions"
)

// Service identity constants. The UUIDs are fixed: the service represents a
// single managed device and has no persistent store to mint identities from.
const (
	redfishVersion  = "1.6.0"
	serviceUUID     = "92384634-2938-2342-8820-489239905423"
	managerUUID     = "92384634-2938-2342-8820-489239905424"
	managerModel    = "Stripfish BMC"
	managerFirmware = "1.0.0"
)

// Chassis and outlet schema constants for the HS300 hardware.
const (
	chassisManufacturer = "TP-Link"
	chassisPartNumber   = "HS300"
	chassisType         = "RackMount"

	// 15 A * 120 V, the typical NEMA 5-15 circuit the strip plugs into.
	outletCapacityWatts = 1800

	outletPhaseWiring  = "OnePhase3Wire"
	outletVoltageType  = "AC"
	outletType         = "NEMA_5_15R"
	outletRatedAmps    = 15
	outletNominalVolts = "AC120V"
	lineInputVoltage   = 120
)

// metadataXML is the minimal $metadata document: just enough schema
// references for clients that insist on resolving @odata.type namespaces.
const metadataXML = `<?xml version="1.0" encoding="UTF-8"?>
<edmx:Edmx xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx" Version="4.0">
    <edmx:Reference Uri="http://redfish.dmtf.org/schemas/v1/ServiceRoot_v1.xml">
        <edmx:Include Namespace="ServiceRoot"/>
        <edmx:Include Namespace="ServiceRoot.v1_5_0"/>
    </edmx:Reference>
    <edmx:Reference Uri="http://redfish.dmtf.org/schemas/v1/Chassis_v1.xml">
        <edmx:Include Namespace="Chassis"/>
        <edmx:Include Namespace="Chassis.v1_10_0"/>
    </edmx:Reference>
    <edmx:DataServices>
        <Schema xmlns="http://docs.oasis-open.org/odata/ns/edm" Namespace="Service">
            <EntityContainer Name="Service" Extends="ServiceRoot.v1_5_0.ServiceContainer"/>
        </Schema>
    </edmx:DataServices>
</edmx:Edmx>`
