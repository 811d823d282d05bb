// Package transform flattens UniFi source records into ServiceNow CMDB records.
//
// Every mapper is a pure function driven by a mapping table: a list of
// target fields, each fed by one or more dotted source paths evaluated in
// order. A path that is missing at any nesting level, or that ends on a
// null, empty string, map or list, leaves the target field absent. Mappers
// only fail when a required target field stays absent, and then with a
// *domain.ValidationError naming it.
package transform
