package domain

import (
	"encoding/json"

	"github.com/elastic/elastic-agent-libs/mapstr"
)

// Host is a UniFi console (gateway) as reported by the Site Manager API.
// Presence of every field is optional and unknown keys are retained in Extra.
type Host struct {
	ID                        string   `json:"id" mapstructure:"id"`
	HardwareID                string   `json:"hardwareId" mapstructure:"hardwareId"`
	Type                      string   `json:"type" mapstructure:"type"`
	IPAddress                 string   `json:"ipAddress" mapstructure:"ipAddress"`
	Owner                     bool     `json:"owner" mapstructure:"owner"`
	IsBlocked                 bool     `json:"isBlocked" mapstructure:"isBlocked"`
	RegistrationTime          string   `json:"registrationTime" mapstructure:"registrationTime"`
	LastConnectionStateChange string   `json:"lastConnectionStateChange" mapstructure:"lastConnectionStateChange"`
	LatestBackupTime          string   `json:"latestBackupTime" mapstructure:"latestBackupTime"`
	ReportedState             mapstr.M `json:"reportedState,omitempty" mapstructure:"reportedState"`
	UserData                  mapstr.M `json:"userData,omitempty" mapstructure:"userData"`

	Extra map[string]any `json:"-" mapstructure:",remain"`
}

type hostAlias Host

// UnmarshalJSON tolerates missing fields, loosely typed scalars and unknown keys.
func (h *Host) UnmarshalJSON(data []byte) error {
	var decoded hostAlias
	if err := unmarshalLoose(data, &decoded); err != nil {
		return err
	}
	*h = Host(decoded)
	return nil
}

// MarshalJSON re-emits unknown keys alongside the known ones.
func (h Host) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(hostAlias(h), h.Extra)
}

// Document returns the host as a generic nested map keyed by API field names.
func (h Host) Document() (mapstr.M, error) {
	return toDocument(h)
}

// Site is a UniFi site. Name, description and timezone live under meta.
type Site struct {
	SiteID     string   `json:"siteId" mapstructure:"siteId"`
	HostID     string   `json:"hostId" mapstructure:"hostId"`
	Meta       mapstr.M `json:"meta,omitempty" mapstructure:"meta"`
	Statistics mapstr.M `json:"statistics,omitempty" mapstructure:"statistics"`
	Permission string   `json:"permission,omitempty" mapstructure:"permission"`
	IsOwner    bool     `json:"isOwner" mapstructure:"isOwner"`

	Extra map[string]any `json:"-" mapstructure:",remain"`
}

type siteAlias Site

func (s *Site) UnmarshalJSON(data []byte) error {
	var decoded siteAlias
	if err := unmarshalLoose(data, &decoded); err != nil {
		return err
	}
	*s = Site(decoded)
	return nil
}

func (s Site) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(siteAlias(s), s.Extra)
}

func (s Site) Document() (mapstr.M, error) {
	return toDocument(s)
}

// Device is a UniFi network device (switch, access point, ...) adopted by a host.
type Device struct {
	ID          string `json:"id" mapstructure:"id"`
	MAC         string `json:"mac" mapstructure:"mac"`
	Name        string `json:"name" mapstructure:"name"`
	Model       string `json:"model,omitempty" mapstructure:"model"`
	Shortname   string `json:"shortname,omitempty" mapstructure:"shortname"`
	Serial      string `json:"serialno,omitempty" mapstructure:"serialno"`
	IP          string `json:"ip,omitempty" mapstructure:"ip"`
	ProductLine string `json:"productLine,omitempty" mapstructure:"productLine"`
	Status      string `json:"status,omitempty" mapstructure:"status"`
	Version     string `json:"version,omitempty" mapstructure:"version"`
	HostID      string `json:"hostId,omitempty" mapstructure:"hostId"`
	SiteID      string `json:"siteId,omitempty" mapstructure:"siteId"`

	Extra map[string]any `json:"-" mapstructure:",remain"`
}

type deviceAlias Device

func (d *Device) UnmarshalJSON(data []byte) error {
	var decoded deviceAlias
	if err := unmarshalLoose(data, &decoded); err != nil {
		return err
	}
	*d = Device(decoded)
	return nil
}

func (d Device) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(deviceAlias(d), d.Extra)
}

func (d Device) Document() (mapstr.M, error) {
	return toDocument(d)
}

// Client is an endpoint seen on a UniFi network.
type Client struct {
	ID       string `json:"id,omitempty" mapstructure:"id"`
	MAC      string `json:"mac" mapstructure:"mac"`
	Hostname string `json:"hostname,omitempty" mapstructure:"hostname"`
	Name     string `json:"name,omitempty" mapstructure:"name"`
	IP       string `json:"ip,omitempty" mapstructure:"ip"`
	Type     string `json:"type,omitempty" mapstructure:"type"`
	SiteID   string `json:"siteId,omitempty" mapstructure:"siteId"`
	DeviceID string `json:"deviceId,omitempty" mapstructure:"deviceId"`

	Extra map[string]any `json:"-" mapstructure:",remain"`
}

type clientAlias Client

func (c *Client) UnmarshalJSON(data []byte) error {
	var decoded clientAlias
	if err := unmarshalLoose(data, &decoded); err != nil {
		return err
	}
	*c = Client(decoded)
	return nil
}

func (c Client) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(clientAlias(c), c.Extra)
}

func (c Client) Document() (mapstr.M, error) {
	return toDocument(c)
}

// Inventory is one controller query worth of source records.
type Inventory struct {
	Hosts   []Host   `json:"hosts,omitempty"`
	Sites   []Site   `json:"sites,omitempty"`
	Devices []Device `json:"devices,omitempty"`
	Clients []Client `json:"clients,omitempty"`
}

// Len returns the total number of source records.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.Hosts) + len(inv.Sites) + len(inv.Devices) + len(inv.Clients)
}

// toDocument round-trips a record through its JSON form so mapping tables can
// address fields by their API names, including unknown ones.
func toDocument(v json.Marshaler) (mapstr.M, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}

	doc := mapstr.M{}
	if err := decodeJSON(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
