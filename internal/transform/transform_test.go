package transform

import (
	"encoding/json"
	"testing"

	"github.com/elastic/elastic-agent-libs/mapstr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowloader/internal/domain"
)

func minimalHost() domain.Host {
	return domain.Host{
		ID:                        "test-host-id",
		HardwareID:                "UDM-Pro",
		Type:                      "gateway",
		IPAddress:                 "192.168.1.1",
		Owner:                     true,
		IsBlocked:                 false,
		RegistrationTime:          "1700000000",
		LastConnectionStateChange: "1700000000",
		LatestBackupTime:          "1700000000",
		ReportedState: mapstr.M{
			"controller_uuid": "uuid-123",
			"host_type":       1,
			"hostname":        "udm-pro",
			"mgmt_port":       8080,
			"name":            "UDM-Pro",
			"state":           "CONNECTED",
			"version":         "1.12.33",
		},
		UserData: mapstr.M{"status": "ACTIVE"},
	}
}

func TestHostToGatewayMinimal(t *testing.T) {
	g, err := HostToGateway(minimalHost())
	require.NoError(t, err)

	assert.Equal(t, "test-host-id", g.SysID)
	assert.Equal(t, "udm-pro", g.Hostname)
	assert.Equal(t, "192.168.1.1", g.IPAddress)
	assert.Equal(t, "UDM-Pro", g.Name)
	require.NotNil(t, g.FirmwareVersion)
	assert.Equal(t, "1.12.33", *g.FirmwareVersion)
	require.NotNil(t, g.State)
	assert.Equal(t, "CONNECTED", *g.State)
	require.NotNil(t, g.HardwareID)
	assert.Equal(t, "UDM-Pro", *g.HardwareID)
}

func TestHostToGatewayFlattensHardware(t *testing.T) {
	h := minimalHost()
	h.ReportedState["hardware"] = map[string]any{"mac": "00:11:22:33:44:55", "serialno": "ABC123"}

	g, err := HostToGateway(h)
	require.NoError(t, err)

	require.NotNil(t, g.MACAddress)
	assert.Equal(t, "00:11:22:33:44:55", *g.MACAddress)
	require.NotNil(t, g.SerialNumber)
	assert.Equal(t, "ABC123", *g.SerialNumber)
}

func TestHostToGatewayMissingHardware(t *testing.T) {
	g, err := HostToGateway(minimalHost())
	require.NoError(t, err)

	assert.Nil(t, g.MACAddress)
	assert.Nil(t, g.SerialNumber)
}

func TestHostToGatewayMalformedNesting(t *testing.T) {
	tests := []struct {
		name     string
		hardware any
	}{
		{"hardware is a string", "not-a-map"},
		{"hardware is null", nil},
		{"hardware is a list", []any{"mac"}},
		{"hardware has nested maps at leaves", map[string]any{"mac": map[string]any{"x": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := minimalHost()
			h.ReportedState["hardware"] = tt.hardware

			g, err := HostToGateway(h)
			require.NoError(t, err)
			assert.Nil(t, g.MACAddress)
		})
	}
}

func TestHostToGatewayIsIdempotent(t *testing.T) {
	h := minimalHost()
	h.ReportedState["hardware"] = map[string]any{"mac": "00:11:22:33:44:55"}

	first, err := HostToGateway(h)
	require.NoError(t, err)
	second, err := HostToGateway(h)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "test-host-id", h.ID, "source is not mutated")
}

func TestHostToGatewayRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Host)
		missing string
	}{
		{"no id", func(h *domain.Host) { h.ID = "" }, "sys_id"},
		{"no ip", func(h *domain.Host) { h.IPAddress = "" }, "ip_address"},
		{"no hostname", func(h *domain.Host) { delete(h.ReportedState, "hostname") }, "hostname"},
		{"no reported state", func(h *domain.Host) { h.ReportedState = nil }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := minimalHost()
			tt.mutate(&h)

			_, err := HostToGateway(h)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.missing, ve.Field)
		})
	}
}

func TestHostToGatewayFromJSON(t *testing.T) {
	raw := `{
		"id": "test-host-id",
		"ipAddress": "192.168.1.1",
		"reportedState": {"hostname": "udm-pro", "name": "UDM-Pro", "version": "1.12.33", "state": "CONNECTED",
			"hardware": {"mac": "00:11:22:33:44:55", "serialno": "ABC123", "sku": "UDM-PRO-US"}},
		"unexpected": {"deeply": {"nested": true}}
	}`

	var h domain.Host
	require.NoError(t, json.Unmarshal([]byte(raw), &h))

	g, err := HostToGateway(h)
	require.NoError(t, err)
	assert.Equal(t, "udm-pro", g.Hostname)
	assert.Empty(t, g.Extra, "unknown source keys never reach the CI")

	payload := domain.CreatePayload(g)
	assert.NotContains(t, payload, "sys_id")
	assert.Equal(t, "00:11:22:33:44:55", payload["mac_address"])
}

func TestHostToGatewayNumericID(t *testing.T) {
	raw := `{"id": 12345678901234567890, "ipAddress": "10.0.0.1",
		"reportedState": {"hostname": "gw", "name": "GW", "hardware": {"serialno": 900719925474099312}}}`

	var h domain.Host
	require.NoError(t, json.Unmarshal([]byte(raw), &h))

	g, err := HostToGateway(h)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", g.SysID)
	require.NotNil(t, g.SerialNumber)
	assert.Equal(t, "900719925474099312", *g.SerialNumber)
}

func TestSiteToLocation(t *testing.T) {
	s := domain.Site{
		SiteID: "site-1",
		HostID: "test-host-id",
		Meta:   mapstr.M{"name": "default", "desc": "Head office", "timezone": "Europe/Berlin"},
	}

	l, err := SiteToLocation(s)
	require.NoError(t, err)
	assert.Equal(t, "default", l.Name)
	assert.Equal(t, "Head office", l.Description)
	assert.Equal(t, "Europe/Berlin", l.Timezone)
	require.NotNil(t, l.HostID)
	assert.Equal(t, "test-host-id", *l.HostID)

	t.Run("description falls back to name", func(t *testing.T) {
		s.Meta = mapstr.M{"name": "default", "timezone": "UTC"}
		l, err := SiteToLocation(s)
		require.NoError(t, err)
		assert.Equal(t, "default", l.Description)
	})

	t.Run("missing timezone fails", func(t *testing.T) {
		s.Meta = mapstr.M{"name": "default"}
		_, err := SiteToLocation(s)
		assert.True(t, domain.IsValidationError(err))
	})
}

func TestDeviceToNetworkDevice(t *testing.T) {
	d := domain.Device{MAC: "aa:bb:cc:dd:ee:ff", Shortname: "USW24", Model: "USW-24-PoE", SiteID: "site-1"}

	nd, err := DeviceToNetworkDevice(d)
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", nd.SysID, "mac is the fallback identifier")
	assert.Equal(t, "USW24", nd.Name)
	require.NotNil(t, nd.Model)
	assert.Equal(t, "USW-24-PoE", *nd.Model)
	assert.Nil(t, nd.SerialNumber)
	assert.Nil(t, nd.HostID)
}

func TestClientToEndpoint(t *testing.T) {
	c := domain.Client{MAC: "cc:dd", Name: "laptop", IP: "10.0.0.5", Type: "WIRELESS"}

	e, err := ClientToEndpoint(c)
	require.NoError(t, err)
	assert.Equal(t, "laptop", e.Hostname)
	require.NotNil(t, e.DeviceType)
	assert.Equal(t, "WIRELESS", *e.DeviceType)

	_, err = ClientToEndpoint(domain.Client{MAC: "cc:dd", Hostname: "laptop"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ip_address", ve.Field)
}

func TestInventory(t *testing.T) {
	broken := minimalHost()
	broken.IPAddress = ""

	inv := &domain.Inventory{
		Hosts: []domain.Host{minimalHost(), broken},
		Sites: []domain.Site{{SiteID: "s", Meta: mapstr.M{"name": "n", "timezone": "UTC"}}},
	}

	results := Inventory(inv)
	require.Len(t, results, 3)

	assert.Equal(t, domain.TableLocation, results[0].Record.Table())
	assert.Equal(t, domain.TableGatewayCI, results[1].Record.Table())
	assert.Nil(t, results[2].Record)
	assert.True(t, domain.IsValidationError(results[2].Err))
	assert.Equal(t, "test-host-id", results[2].SourceID)
	assert.Equal(t, domain.TableGatewayCI, results[2].Table)

	assert.Nil(t, Inventory(nil))
}

func TestLookup(t *testing.T) {
	doc := mapstr.M{
		"a": map[string]any{"b": map[string]any{"c": "deep"}},
		"n": float64(42),
		"f": 1.5,
		"t": true,
		"e": "",
	}

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"a.b.c", "deep", true},
		{"a.b", "", false},
		{"a.x.c", "", false},
		{"n", "42", true},
		{"f", "1.5", true},
		{"t", "true", true},
		{"e", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(doc, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Lookup(nil, "a")
	assert.False(t, ok)
}
