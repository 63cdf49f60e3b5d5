package topology

import (
	"fmt"
	"maps"
)

// Kind classifies a resource node.
type Kind string

const (
	KindNetwork         Kind = "network"
	KindInternetGateway Kind = "internet-gateway"
	KindSubnet          Kind = "subnet"
	KindNATGateway      Kind = "nat-gateway"
	KindRouteTable      Kind = "route-table"
	KindAssociation     Kind = "route-table-association"
)

// Attribute keys used in Node.Attrs.
const (
	AttrCIDR        = "cidr"
	AttrZone        = "zone"
	AttrTier        = "tier"
	AttrSubnet      = "subnet"
	AttrRouteTarget = "route-target"
	AttrRouteTable  = "route-table"
)

// ID is the identity of a resource node: its kind plus logical name.
type ID struct {
	Kind Kind
	Name string
}

// String renders the identity as kind/name.
func (id ID) String() string {
	return fmt.Sprintf("%s/%s", id.Kind, id.Name)
}

// Node is one resource in the desired (or observed) topology.
type Node struct {
	ID ID

	// Attrs holds the desired attributes compared during planning.
	Attrs map[string]string

	// Tags is the provider tag set, produced by the tag policy.
	Tags map[string]string

	// DependsOn lists the identities this node requires before it can exist.
	DependsOn []ID
}

// Matches reports whether the other node carries identical attributes and
// tags. Identity is assumed equal; dependency edges do not participate in
// the comparison.
func (n *Node) Matches(other *Node) bool {
	if other == nil {
		return false
	}
	return maps.Equal(n.Attrs, other.Attrs) && maps.Equal(n.Tags, other.Tags)
}

// dependsOn reports whether the node has a direct edge to the given identity.
func (n *Node) dependsOn(id ID) bool {
	for _, dep := range n.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}
