package redfish

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stripfish/stripfish/internal/kasa"
)

// ─── Test Fixtures ───────────────────────────────────────────────────────────

func testSnapshot() *kasa.Snapshot {
	return &kasa.Snapshot{
		Alias:           "Rack Strip",
		Model:           "HS300(US)",
		DeviceID:        "8006E8BE1D52",
		SoftwareVersion: "1.0.10",
		Outlets: []kasa.OutletState{
			{Index: 0, Alias: "Router", On: true},
			{Index: 1, Alias: "Switch", On: false},
			{Index: 2, Alias: "NAS", On: true},
		},
	}
}

// ─── Service Root and Versions ───────────────────────────────────────────────

func TestRenderVersions(t *testing.T) {
	v := RenderVersions()
	if v.V1 != "/redfish/v1/" {
		t.Errorf("V1 = %q, want /redfish/v1/", v.V1)
	}
}

func TestRenderServiceRoot(t *testing.T) {
	root := RenderServiceRoot()

	if root.ODataID != URIServiceRoot {
		t.Errorf("@odata.id = %q, want %q", root.ODataID, URIServiceRoot)
	}
	if root.RedfishVersion != "1.6.0" {
		t.Errorf("RedfishVersion = %q, want 1.6.0", root.RedfishVersion)
	}
	if root.Chassis.ODataID != URIChassisCollection {
		t.Errorf("Chassis link = %q, want %q", root.Chassis.ODataID, URIChassisCollection)
	}
	if root.Links.Sessions.ODataID != URISessions {
		t.Errorf("Sessions link = %q, want %q", root.Links.Sessions.ODataID, URISessions)
	}
}

func TestRenderMetadata(t *testing.T) {
	xml := RenderMetadata()
	if !strings.HasPrefix(xml, `<?xml version="1.0"`) {
		t.Error("metadata does not start with an XML declaration")
	}
	if !strings.Contains(xml, "ServiceRoot.v1_5_0") {
		t.Error("metadata missing ServiceRoot schema reference")
	}
}

// ─── Collections ─────────────────────────────────────────────────────────────

func TestCollectionCountsMatchMembers(t *testing.T) {
	tests := []struct {
		name string
		coll Collection
		want int
	}{
		{"chassis", RenderChassisCollection(), 1},
		{"power supplies", RenderPowerSupplyCollection(), 1},
		{"outlet groups", RenderOutletGroupCollection(), 1},
		{"outlets", RenderOutletCollection(6), 6},
		{"systems", RenderSystemsCollection(), 0},
		{"managers", RenderManagerCollection(), 1},
		{"sessions", RenderSessionCollection(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.coll.Count != tt.want {
				t.Errorf("Count = %d, want %d", tt.coll.Count, tt.want)
			}
			if len(tt.coll.Members) != tt.coll.Count {
				t.Errorf("len(Members) = %d, Count = %d", len(tt.coll.Members), tt.coll.Count)
			}
		})
	}
}

func TestEmptyCollectionMarshalsMembersArray(t *testing.T) {
	data, err := json.Marshal(RenderSystemsCollection())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"Members":[]`) {
		t.Errorf("empty collection should marshal Members as [], got %s", data)
	}
}

func TestRenderOutletCollectionOrder(t *testing.T) {
	coll := RenderOutletCollection(3)
	for i, member := range coll.Members {
		want := OutletURI(i)
		if member.ODataID != want {
			t.Errorf("member %d = %q, want %q", i, member.ODataID, want)
		}
	}
}

// ─── Chassis and Power ───────────────────────────────────────────────────────

func TestRenderChassis(t *testing.T) {
	chassis := RenderChassis(testSnapshot())

	if chassis.ODataID != URIChassis {
		t.Errorf("@odata.id = %q, want %q", chassis.ODataID, URIChassis)
	}
	if chassis.Name != "Rack Strip" {
		t.Errorf("Name = %q, want alias from snapshot", chassis.Name)
	}
	if chassis.Model != "HS300(US)" {
		t.Errorf("Model = %q, want HS300(US)", chassis.Model)
	}
	if chassis.SerialNumber != "8006E8BE1D52" {
		t.Errorf("SerialNumber = %q, want device id", chassis.SerialNumber)
	}
	if chassis.Links.ManagedBy[0].ODataID != URIManager {
		t.Errorf("ManagedBy = %q, want %q", chassis.Links.ManagedBy[0].ODataID, URIManager)
	}
}

func TestRenderPower(t *testing.T) {
	power := RenderPower(testSnapshot())

	if power.ControlCount != 3 {
		t.Fatalf("PowerControl count = %d, want 3", power.ControlCount)
	}
	if len(power.PowerControl) != power.ControlCount {
		t.Fatalf("len(PowerControl) = %d, count = %d", len(power.PowerControl), power.ControlCount)
	}

	// Outlet 0 is on, outlet 1 is off.
	if got := power.PowerControl[0].Status.State; got != "Enabled" {
		t.Errorf("outlet 0 state = %q, want Enabled", got)
	}
	if got := power.PowerControl[1].Status.State; got != "Disabled" {
		t.Errorf("outlet 1 state = %q, want Disabled", got)
	}
	if got := power.PowerControl[1].Name; got != "Switch" {
		t.Errorf("outlet 1 name = %q, want Switch", got)
	}
}

// ─── Outlets ─────────────────────────────────────────────────────────────────

func TestRenderOutlet(t *testing.T) {
	tests := []struct {
		name      string
		state     kasa.OutletState
		wantState string
	}{
		{"on", kasa.OutletState{Index: 2, Alias: "NAS", On: true}, "On"},
		{"off", kasa.OutletState{Index: 5, Alias: "Spare", On: false}, "Off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outlet := RenderOutlet(tt.state)

			if outlet.PowerState != tt.wantState {
				t.Errorf("PowerState = %q, want %q", outlet.PowerState, tt.wantState)
			}
			if outlet.PowerEnabled != tt.state.On {
				t.Errorf("PowerEnabled = %v, want %v", outlet.PowerEnabled, tt.state.On)
			}
			if outlet.ODataID != OutletURI(tt.state.Index) {
				t.Errorf("@odata.id = %q, want %q", outlet.ODataID, OutletURI(tt.state.Index))
			}
			if outlet.Name != tt.state.Alias {
				t.Errorf("Name = %q, want %q", outlet.Name, tt.state.Alias)
			}
		})
	}
}

func TestRenderOutletActions(t *testing.T) {
	outlet := RenderOutlet(kasa.OutletState{Index: 4, Alias: "Lamp", On: false})

	wantTarget := "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/Outlets/4/Actions/Outlet.PowerControl"
	if outlet.Actions.PowerControl.Target != wantTarget {
		t.Errorf("PowerControl target = %q, want %q", outlet.Actions.PowerControl.Target, wantTarget)
	}

	values := outlet.Actions.PowerControl.AllowableValues
	if len(values) != 2 || values[0] != "On" || values[1] != "Off" {
		t.Errorf("allowable values = %v, want [On Off]", values)
	}

	wantReset := "/redfish/v1/Chassis/PowerStrip/PowerSubsystem/Outlets/4/Actions/Outlet.ResetMetrics"
	if outlet.Actions.ResetMetrics.Target != wantReset {
		t.Errorf("ResetMetrics target = %q, want %q", outlet.Actions.ResetMetrics.Target, wantReset)
	}
}

func TestOutletAnnotationsMarshal(t *testing.T) {
	data, err := json.Marshal(RenderOutlet(kasa.OutletState{Index: 0, Alias: "Router", On: true}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	body := string(data)
	for _, want := range []string{
		`"@odata.id"`,
		`"@odata.type"`,
		`"#Outlet.PowerControl"`,
		`"PowerState@Redfish.AllowableValues"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("outlet body missing %s", want)
		}
	}
}

func TestRenderOutletGroup(t *testing.T) {
	group := RenderOutletGroup(6)

	if group.Links.Count != 6 {
		t.Errorf("Outlets@odata.count = %d, want 6", group.Links.Count)
	}
	if len(group.Links.Outlets) != 6 {
		t.Errorf("len(Outlets) = %d, want 6", len(group.Links.Outlets))
	}
	if group.Links.Outlets[5].ODataID != OutletURI(5) {
		t.Errorf("last member = %q, want %q", group.Links.Outlets[5].ODataID, OutletURI(5))
	}
}

// ─── Managers and Sessions ───────────────────────────────────────────────────

func TestRenderManager(t *testing.T) {
	mgr := RenderManager()

	if mgr.ODataID != URIManager {
		t.Errorf("@odata.id = %q, want %q", mgr.ODataID, URIManager)
	}
	if mgr.ManagerType != "BMC" {
		t.Errorf("ManagerType = %q, want BMC", mgr.ManagerType)
	}
	if mgr.Links.ManagerForChassis[0].ODataID != URIChassis {
		t.Errorf("ManagerForChassis = %q, want %q", mgr.Links.ManagerForChassis[0].ODataID, URIChassis)
	}
}

func TestRenderSessionService(t *testing.T) {
	svc := RenderSessionService()
	if svc.Sessions.ODataID != URISessions {
		t.Errorf("Sessions link = %q, want %q", svc.Sessions.ODataID, URISessions)
	}
	if !svc.ServiceEnabled {
		t.Error("ServiceEnabled = false, want true")
	}
}
