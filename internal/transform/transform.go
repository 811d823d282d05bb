package transform

import (
	"fmt"

	"snowloader/internal/domain"
)

// HostToGateway flattens a Site Manager host into a gateway CI. The host id
// becomes the candidate sys_id; it is stripped again before any insert.
func HostToGateway(h domain.Host) (*domain.GatewayCI, error) {
	doc, err := h.Document()
	if err != nil {
		return nil, fmt.Errorf("read host %s: %w", h.ID, err)
	}

	return domain.DecodeGateway(Project(doc, HostToGatewayMapping))
}

// SiteToLocation flattens a site into a location record.
func SiteToLocation(s domain.Site) (*domain.Location, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, fmt.Errorf("read site %s: %w", s.SiteID, err)
	}

	return domain.DecodeLocation(Project(doc, SiteToLocationMapping))
}

// DeviceToNetworkDevice flattens an adopted device into a network gear CI.
func DeviceToNetworkDevice(d domain.Device) (*domain.NetworkDeviceCI, error) {
	doc, err := d.Document()
	if err != nil {
		return nil, fmt.Errorf("read device %s: %w", d.ID, err)
	}

	return domain.DecodeNetworkDevice(Project(doc, DeviceToNetworkDeviceMapping))
}

// ClientToEndpoint flattens a network client into an endpoint record.
func ClientToEndpoint(c domain.Client) (*domain.Endpoint, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, fmt.Errorf("read client %s: %w", c.MAC, err)
	}

	return domain.DecodeEndpoint(Project(doc, ClientToEndpointMapping))
}

// Result pairs a source record id with its mapped CI or the mapping error.
type Result struct {
	Table    string
	SourceID string
	Record   domain.Record
	Err      error
}

// Inventory maps every record of an inventory in a fixed order: sites,
// hosts, devices, clients. Records that fail validation are reported with
// their error rather than aborting the pass.
func Inventory(inv *domain.Inventory) []Result {
	if inv == nil {
		return nil
	}

	results := make([]Result, 0, inv.Len())

	for _, s := range inv.Sites {
		r, err := SiteToLocation(s)
		results = append(results, result(domain.TableLocation, s.SiteID, r, err))
	}
	for _, h := range inv.Hosts {
		r, err := HostToGateway(h)
		results = append(results, result(domain.TableGatewayCI, h.ID, r, err))
	}
	for _, d := range inv.Devices {
		id := d.ID
		if id == "" {
			id = d.MAC
		}
		r, err := DeviceToNetworkDevice(d)
		results = append(results, result(domain.TableNetworkDeviceCI, id, r, err))
	}
	for _, c := range inv.Clients {
		id := c.ID
		if id == "" {
			id = c.MAC
		}
		r, err := ClientToEndpoint(c)
		results = append(results, result(domain.TableEndpoint, id, r, err))
	}

	return results
}

// result avoids storing a typed nil pointer in the Record interface.
func result[T domain.Record](table, sourceID string, rec *T, err error) Result {
	if err != nil || rec == nil {
		return Result{Table: table, SourceID: sourceID, Err: err}
	}
	return Result{Table: table, SourceID: sourceID, Record: *rec}
}
