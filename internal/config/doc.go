// Package config defines the network spec consumed by the provisioner and
// loads it from YAML.
//
// A spec names a top-level address block, an ordered list of availability
// zones, a NAT mode, a resource name prefix, and a base tag set. Validation
// runs before any planning; an invalid spec never reaches the graph builder.
package config
