// Package domain defines the record types moved by snowloader.
//
// # Source Records
//
// Host, Site, Device and Client mirror the UniFi Site Manager API. They are
// irregular documents: any field may be missing, scalars may arrive with the
// wrong JSON type, and unknown keys are kept in Extra so nothing the
// controller reports is lost. Nested state (reportedState, userData, meta)
// stays a free-form mapstr.M and is addressed by dotted paths.
//
// # Target Records
//
// GatewayCI, Location, NetworkDeviceCI and Endpoint are flat ServiceNow CMDB
// records. Required fields are plain strings, optional fields are *string
// (nil means absent). Validation is structural only: a required field that is
// empty yields a *ValidationError naming it. Unknown fields returned by the
// Table API are retained in Extra and written back out on marshal.
//
// CreatePayload is the only way records are serialized for an insert. It
// omits absent fields and always strips sys_id, which ServiceNow assigns.
package domain
