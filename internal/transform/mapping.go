package transform

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/elastic-agent-libs/mapstr"
)

// FieldMapping feeds one target field from the first source path that
// resolves to a scalar.
type FieldMapping struct {
	Target  string
	Sources []string
}

func m(target string, sources ...string) FieldMapping {
	return FieldMapping{Target: target, Sources: sources}
}

// HostToGatewayMapping maps a Site Manager host to cmdb_ci_network_gateway.
var HostToGatewayMapping = []FieldMapping{
	m("sys_id", "id"),
	m("ip_address", "ipAddress"),
	m("hostname", "reportedState.hostname"),
	m("name", "reportedState.name"),
	m("firmware_version", "reportedState.version"),
	m("state", "reportedState.state"),
	m("mac_address", "reportedState.hardware.mac"),
	m("serial_number", "reportedState.hardware.serialno"),
	m("hardware_id", "hardwareId"),
}

// SiteToLocationMapping maps a site to cmdb_location.
var SiteToLocationMapping = []FieldMapping{
	m("sys_id", "siteId"),
	m("name", "meta.name"),
	m("description", "meta.desc", "meta.name"),
	m("timezone", "meta.timezone"),
	m("host_id", "hostId"),
}

// DeviceToNetworkDeviceMapping maps an adopted device to cmdb_ci_network_gear.
var DeviceToNetworkDeviceMapping = []FieldMapping{
	m("sys_id", "id", "mac"),
	m("name", "name", "shortname", "model"),
	m("mac_address", "mac"),
	m("serial_number", "serialno", "serial"),
	m("model", "model", "shortname"),
	m("site_id", "siteId"),
	m("host_id", "hostId"),
}

// ClientToEndpointMapping maps a network client to cmdb_endpoint.
var ClientToEndpointMapping = []FieldMapping{
	m("sys_id", "id", "mac"),
	m("hostname", "hostname", "name"),
	m("ip_address", "ip"),
	m("mac_address", "mac"),
	m("device_type", "type"),
	m("site_id", "siteId"),
	m("device_id", "deviceId"),
}

// Project evaluates a mapping table against a source document and returns
// the flat target fields that resolved. Absent fields are not present in
// the result.
func Project(doc mapstr.M, table []FieldMapping) map[string]any {
	out := make(map[string]any, len(table))
	for _, fm := range table {
		for _, path := range fm.Sources {
			if value, ok := Lookup(doc, path); ok {
				out[fm.Target] = value
				break
			}
		}
	}
	return out
}

// Lookup resolves a dotted path to a scalar rendered as a string.
func Lookup(doc mapstr.M, path string) (string, bool) {
	if doc == nil {
		return "", false
	}

	raw, err := doc.GetValue(path)
	if err != nil {
		return "", false
	}

	return scalarString(raw)
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), true
	case json.Number:
		return val.String(), true
	default:
		return "", false
	}
}
