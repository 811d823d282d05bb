package domain

import (
	"encoding/json"
	"fmt"
)

// ServiceNow CMDB tables the loader writes to
const (
	TableGatewayCI       = "cmdb_ci_network_gateway"
	TableLocation        = "cmdb_location"
	TableNetworkDeviceCI = "cmdb_ci_network_gear"
	TableEndpoint        = "cmdb_endpoint"
)

// SysIDField is the identifier ServiceNow assigns on insert.
const SysIDField = "sys_id"

// Record is a flat, validated ServiceNow CMDB record
type Record interface {
	// Table returns the CMDB table the record belongs to
	Table() string
	// Validate checks that every required field is present
	Validate() error
	// Fields returns a fresh map of the record's fields with absent
	// optionals omitted and unknown fields merged in
	Fields() map[string]any
}

// GatewayCI is a cmdb_ci_network_gateway record.
type GatewayCI struct {
	SysID           string  `mapstructure:"sys_id"`
	Name            string  `mapstructure:"name"`
	IPAddress       string  `mapstructure:"ip_address"`
	Hostname        string  `mapstructure:"hostname"`
	FirmwareVersion *string `mapstructure:"firmware_version"`
	HardwareID      *string `mapstructure:"hardware_id"`
	MACAddress      *string `mapstructure:"mac_address"`
	SerialNumber    *string `mapstructure:"serial_number"`
	State           *string `mapstructure:"state"`

	// Extra holds fields the target system returned that this type does not model.
	Extra map[string]any `mapstructure:",remain"`
}

func (g GatewayCI) Table() string { return TableGatewayCI }

func (g GatewayCI) Validate() error {
	return requireFields("GatewayCI",
		field{"sys_id", g.SysID},
		field{"name", g.Name},
		field{"ip_address", g.IPAddress},
		field{"hostname", g.Hostname},
	)
}

func (g GatewayCI) Fields() map[string]any {
	m := baseFields(g.Extra)
	m["sys_id"] = g.SysID
	m["name"] = g.Name
	m["ip_address"] = g.IPAddress
	m["hostname"] = g.Hostname
	setOptional(m, "firmware_version", g.FirmwareVersion)
	setOptional(m, "hardware_id", g.HardwareID)
	setOptional(m, "mac_address", g.MACAddress)
	setOptional(m, "serial_number", g.SerialNumber)
	setOptional(m, "state", g.State)
	return m
}

func (g GatewayCI) MarshalJSON() ([]byte, error) { return marshalFields(g) }

func (g *GatewayCI) UnmarshalJSON(data []byte) error { return unmarshalRecord(data, g) }

// Location is a cmdb_location record.
type Location struct {
	SysID       string  `mapstructure:"sys_id"`
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Timezone    string  `mapstructure:"timezone"`
	HostID      *string `mapstructure:"host_id"`

	Extra map[string]any `mapstructure:",remain"`
}

func (l Location) Table() string { return TableLocation }

func (l Location) Validate() error {
	return requireFields("Location",
		field{"sys_id", l.SysID},
		field{"name", l.Name},
		field{"description", l.Description},
		field{"timezone", l.Timezone},
	)
}

func (l Location) Fields() map[string]any {
	m := baseFields(l.Extra)
	m["sys_id"] = l.SysID
	m["name"] = l.Name
	m["description"] = l.Description
	m["timezone"] = l.Timezone
	setOptional(m, "host_id", l.HostID)
	return m
}

func (l Location) MarshalJSON() ([]byte, error) { return marshalFields(l) }

func (l *Location) UnmarshalJSON(data []byte) error { return unmarshalRecord(data, l) }

// NetworkDeviceCI is a cmdb_ci_network_gear record.
type NetworkDeviceCI struct {
	SysID        string  `mapstructure:"sys_id"`
	Name         string  `mapstructure:"name"`
	MACAddress   string  `mapstructure:"mac_address"`
	SerialNumber *string `mapstructure:"serial_number"`
	Model        *string `mapstructure:"model"`
	SiteID       *string `mapstructure:"site_id"`
	HostID       *string `mapstructure:"host_id"`

	Extra map[string]any `mapstructure:",remain"`
}

func (d NetworkDeviceCI) Table() string { return TableNetworkDeviceCI }

func (d NetworkDeviceCI) Validate() error {
	return requireFields("NetworkDeviceCI",
		field{"sys_id", d.SysID},
		field{"name", d.Name},
		field{"mac_address", d.MACAddress},
	)
}

func (d NetworkDeviceCI) Fields() map[string]any {
	m := baseFields(d.Extra)
	m["sys_id"] = d.SysID
	m["name"] = d.Name
	m["mac_address"] = d.MACAddress
	setOptional(m, "serial_number", d.SerialNumber)
	setOptional(m, "model", d.Model)
	setOptional(m, "site_id", d.SiteID)
	setOptional(m, "host_id", d.HostID)
	return m
}

func (d NetworkDeviceCI) MarshalJSON() ([]byte, error) { return marshalFields(d) }

func (d *NetworkDeviceCI) UnmarshalJSON(data []byte) error { return unmarshalRecord(data, d) }

// Endpoint is a cmdb_endpoint record for a network client.
type Endpoint struct {
	SysID      string  `mapstructure:"sys_id"`
	Hostname   string  `mapstructure:"hostname"`
	IPAddress  string  `mapstructure:"ip_address"`
	MACAddress string  `mapstructure:"mac_address"`
	DeviceType *string `mapstructure:"device_type"`
	SiteID     *string `mapstructure:"site_id"`
	DeviceID   *string `mapstructure:"device_id"`

	Extra map[string]any `mapstructure:",remain"`
}

func (e Endpoint) Table() string { return TableEndpoint }

func (e Endpoint) Validate() error {
	return requireFields("Endpoint",
		field{"sys_id", e.SysID},
		field{"hostname", e.Hostname},
		field{"ip_address", e.IPAddress},
		field{"mac_address", e.MACAddress},
	)
}

func (e Endpoint) Fields() map[string]any {
	m := baseFields(e.Extra)
	m["sys_id"] = e.SysID
	m["hostname"] = e.Hostname
	m["ip_address"] = e.IPAddress
	m["mac_address"] = e.MACAddress
	setOptional(m, "device_type", e.DeviceType)
	setOptional(m, "site_id", e.SiteID)
	setOptional(m, "device_id", e.DeviceID)
	return m
}

func (e Endpoint) MarshalJSON() ([]byte, error) { return marshalFields(e) }

func (e *Endpoint) UnmarshalJSON(data []byte) error { return unmarshalRecord(data, e) }

// DecodeGateway builds a validated GatewayCI from a flat field map.
func DecodeGateway(fields map[string]any) (*GatewayCI, error) {
	var g GatewayCI
	if err := decodeRecord(fields, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DecodeLocation builds a validated Location from a flat field map.
func DecodeLocation(fields map[string]any) (*Location, error) {
	var l Location
	if err := decodeRecord(fields, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeNetworkDevice builds a validated NetworkDeviceCI from a flat field map.
func DecodeNetworkDevice(fields map[string]any) (*NetworkDeviceCI, error) {
	var d NetworkDeviceCI
	if err := decodeRecord(fields, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DecodeEndpoint builds a validated Endpoint from a flat field map.
func DecodeEndpoint(fields map[string]any) (*Endpoint, error) {
	var e Endpoint
	if err := decodeRecord(fields, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreatePayload serializes a record for an insert. Absent fields are
// dropped and sys_id is always removed, even when the caller set one or
// it arrived as an extra field. The record itself is left untouched.
func CreatePayload(r Record) map[string]any {
	payload := r.Fields()
	delete(payload, SysIDField)
	for k, v := range payload {
		if v == nil {
			delete(payload, k)
		}
	}
	return payload
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type field struct {
	name  string
	value string
}

func requireFields(record string, fields ...field) error {
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Record: record, Field: f.name}
		}
	}
	return nil
}

func baseFields(extra map[string]any) map[string]any {
	m := make(map[string]any, len(extra)+9)
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func setOptional(m map[string]any, key string, value *string) {
	if value != nil {
		m[key] = *value
	} else {
		delete(m, key)
	}
}

type validatingRecord interface {
	Validate() error
}

func decodeRecord(fields map[string]any, out validatingRecord) error {
	if err := decodeLoose(fields, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return out.Validate()
}

func unmarshalRecord(data []byte, out validatingRecord) error {
	if err := unmarshalLoose(data, out); err != nil {
		return err
	}
	return out.Validate()
}

func marshalFields(r Record) ([]byte, error) {
	return json.Marshal(r.Fields())
}
