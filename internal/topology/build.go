package topology

import (
	"fmt"

	"github.com/imamik/netforge/internal/cidr"
	"github.com/imamik/netforge/internal/config"
	"github.com/imamik/netforge/internal/naming"
	"github.com/imamik/netforge/internal/tags"
)

// Build assembles the resource graph for one spec and its CIDR allocation.
// The result is a pure function of its inputs: rebuilding with an unchanged
// spec yields identical node identities and attributes.
func Build(spec *config.Spec, alloc *cidr.Allocation) (*Graph, error) {
	zoneCount := len(spec.Zones)
	if len(alloc.Public) != zoneCount || len(alloc.Private) != zoneCount {
		return nil, fmt.Errorf("allocation has %d public / %d private blocks for %d zones",
			len(alloc.Public), len(alloc.Private), zoneCount)
	}

	b := &builder{
		spec:  spec,
		alloc: alloc,
		graph: NewGraph(),
	}

	if err := b.build(); err != nil {
		return nil, err
	}
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return b.graph, nil
}

type builder struct {
	spec  *config.Spec
	alloc *cidr.Allocation
	graph *Graph
}

func (b *builder) build() error {
	network := b.add(KindNetwork, naming.Network(b.spec.NamePrefix), map[string]string{
		AttrCIDR: b.spec.TopBlock,
	})

	igw := b.add(KindInternetGateway, naming.InternetGateway(b.spec.NamePrefix), nil, network)

	publicSubnets := make([]ID, len(b.spec.Zones))
	privateSubnets := make([]ID, len(b.spec.Zones))
	for i, zone := range b.spec.Zones {
		publicSubnets[i] = b.add(KindSubnet, naming.Subnet(b.spec.NamePrefix, naming.TierPublic, i+1), map[string]string{
			AttrCIDR: b.alloc.Public[i],
			AttrZone: zone,
			AttrTier: naming.TierPublic,
		}, network)

		privateSubnets[i] = b.add(KindSubnet, naming.Subnet(b.spec.NamePrefix, naming.TierPrivate, i+1), map[string]string{
			AttrCIDR: b.alloc.Private[i],
			AttrZone: zone,
			AttrTier: naming.TierPrivate,
		}, network)
	}

	natGateways := b.buildNATGateways(igw, publicSubnets)

	publicTable := b.add(KindRouteTable, naming.PublicRouteTable(b.spec.NamePrefix), map[string]string{
		AttrTier:        naming.TierPublic,
		AttrRouteTarget: igw.Name,
	}, igw)

	privateTables := make([]ID, len(natGateways))
	for i, nat := range natGateways {
		privateTables[i] = b.add(KindRouteTable, naming.PrivateRouteTable(b.spec.NamePrefix, i+1), map[string]string{
			AttrTier:        naming.TierPrivate,
			AttrRouteTarget: nat.Name,
		}, nat)
	}

	for i := range b.spec.Zones {
		b.add(KindAssociation, naming.Association(b.spec.NamePrefix, naming.TierPublic, i+1), map[string]string{
			AttrSubnet:     publicSubnets[i].Name,
			AttrRouteTable: publicTable.Name,
		}, publicSubnets[i], publicTable)

		// In single mode every private subnet shares table index 0.
		table := privateTables[0]
		if b.spec.NATMode == config.NATModePerZone {
			table = privateTables[i]
		}
		b.add(KindAssociation, naming.Association(b.spec.NamePrefix, naming.TierPrivate, i+1), map[string]string{
			AttrSubnet:     privateSubnets[i].Name,
			AttrRouteTable: table.Name,
		}, privateSubnets[i], table)
	}

	return nil
}

// buildNATGateways creates the NAT device nodes according to the spec's mode:
// a single gateway bound to the first public subnet, or one per zone bound to
// the public subnet of the same zone.
func (b *builder) buildNATGateways(igw ID, publicSubnets []ID) []ID {
	if b.spec.NATMode == config.NATModeSingle {
		nat := b.add(KindNATGateway, naming.NATGateway(b.spec.NamePrefix, 1), map[string]string{
			AttrSubnet: publicSubnets[0].Name,
		}, igw, publicSubnets[0])
		return []ID{nat}
	}

	nats := make([]ID, len(publicSubnets))
	for i, subnet := range publicSubnets {
		nats[i] = b.add(KindNATGateway, naming.NATGateway(b.spec.NamePrefix, i+1), map[string]string{
			AttrSubnet: subnet.Name,
		}, igw, subnet)
	}
	return nats
}

// add materializes one node with policy-generated tags and records it.
// Construction never produces duplicate identities, so Add cannot fail here.
func (b *builder) add(kind Kind, name string, attrs map[string]string, deps ...ID) ID {
	if attrs == nil {
		attrs = map[string]string{}
	}
	node := &Node{
		ID:    ID{Kind: kind, Name: name},
		Attrs: attrs,
		Tags: tags.NewBuilder(b.spec.NamePrefix).
			Merge(b.spec.Tags).
			WithName(name).
			Build(),
		DependsOn: deps,
	}
	_ = b.graph.Add(node)
	return node.ID
}
