package ec2

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/netforge/internal/naming"
	"github.com/imamik/netforge/internal/tags"
	"github.com/imamik/netforge/internal/topology"
)

// Describe lists every resource managed under the prefix and reconstructs
// it as topology nodes, including the dependency edges the planner needs
// for ordering destroys.
func (c *RealClient) Describe(ctx context.Context, prefix string) ([]*topology.Node, error) {
	d := &describer{client: c, prefix: prefix}

	if err := d.networks(ctx); err != nil {
		return nil, err
	}
	if err := d.internetGateways(ctx); err != nil {
		return nil, err
	}
	if err := d.subnets(ctx); err != nil {
		return nil, err
	}
	if err := d.natGateways(ctx); err != nil {
		return nil, err
	}
	if err := d.routeTables(ctx); err != nil {
		return nil, err
	}
	return d.nodes, nil
}

// describer accumulates observed nodes and the provider-id indexes the later
// listing passes need to resolve references back to logical names.
type describer struct {
	client *RealClient
	prefix string

	nodes []*topology.Node

	networkID  topology.ID
	igwID      topology.ID
	igwByID    map[string]string
	subnetByID map[string]*topology.Node
	natByID    map[string]string
}

func (d *describer) networks(ctx context.Context) error {
	out, err := d.client.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: prefixFilters(d.prefix)})
	if err != nil {
		return classify(fmt.Errorf("failed to list networks: %w", err))
	}
	for _, vpc := range out.Vpcs {
		tagMap := fromEC2Tags(vpc.Tags)
		node := &topology.Node{
			ID:    topology.ID{Kind: topology.KindNetwork, Name: tagMap[tags.KeyName]},
			Attrs: map[string]string{topology.AttrCIDR: aws.ToString(vpc.CidrBlock)},
			Tags:  tagMap,
		}
		d.networkID = node.ID
		d.nodes = append(d.nodes, node)
		d.client.cacheID(node.ID, aws.ToString(vpc.VpcId))
	}
	return nil
}

func (d *describer) internetGateways(ctx context.Context) error {
	d.igwByID = make(map[string]string)
	out, err := d.client.api.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: prefixFilters(d.prefix)})
	if err != nil {
		return classify(fmt.Errorf("failed to list internet gateways: %w", err))
	}
	for _, igw := range out.InternetGateways {
		tagMap := fromEC2Tags(igw.Tags)
		node := &topology.Node{
			ID:    topology.ID{Kind: topology.KindInternetGateway, Name: tagMap[tags.KeyName]},
			Attrs: map[string]string{},
			Tags:  tagMap,
		}
		if len(igw.Attachments) > 0 && d.networkID.Name != "" {
			node.DependsOn = []topology.ID{d.networkID}
		}
		d.igwID = node.ID
		d.igwByID[aws.ToString(igw.InternetGatewayId)] = node.ID.Name
		d.nodes = append(d.nodes, node)
		d.client.cacheID(node.ID, aws.ToString(igw.InternetGatewayId))
	}
	return nil
}

func (d *describer) subnets(ctx context.Context) error {
	d.subnetByID = make(map[string]*topology.Node)
	out, err := d.client.api.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{Filters: prefixFilters(d.prefix)})
	if err != nil {
		return classify(fmt.Errorf("failed to list subnets: %w", err))
	}
	for _, subnet := range out.Subnets {
		tagMap := fromEC2Tags(subnet.Tags)
		name := tagMap[tags.KeyName]
		tier, _, ok := parseSubnetName(d.prefix, name)
		if !ok {
			continue
		}
		node := &topology.Node{
			ID: topology.ID{Kind: topology.KindSubnet, Name: name},
			Attrs: map[string]string{
				topology.AttrCIDR: aws.ToString(subnet.CidrBlock),
				topology.AttrZone: aws.ToString(subnet.AvailabilityZone),
				topology.AttrTier: tier,
			},
			Tags: tagMap,
		}
		if d.networkID.Name != "" {
			node.DependsOn = []topology.ID{d.networkID}
		}
		d.subnetByID[aws.ToString(subnet.SubnetId)] = node
		d.nodes = append(d.nodes, node)
		d.client.cacheID(node.ID, aws.ToString(subnet.SubnetId))
	}
	return nil
}

func (d *describer) natGateways(ctx context.Context) error {
	d.natByID = make(map[string]string)
	out, err := d.client.api.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{Filter: prefixFilters(d.prefix)})
	if err != nil {
		return classify(fmt.Errorf("failed to list NAT gateways: %w", err))
	}
	for _, nat := range out.NatGateways {
		if natGone(nat.State) {
			continue
		}
		tagMap := fromEC2Tags(nat.Tags)
		node := &topology.Node{
			ID:    topology.ID{Kind: topology.KindNATGateway, Name: tagMap[tags.KeyName]},
			Attrs: map[string]string{},
			Tags:  tagMap,
		}
		if subnet, ok := d.subnetByID[aws.ToString(nat.SubnetId)]; ok {
			node.Attrs[topology.AttrSubnet] = subnet.ID.Name
			node.DependsOn = append(node.DependsOn, subnet.ID)
		}
		if d.igwID.Name != "" {
			node.DependsOn = append([]topology.ID{d.igwID}, node.DependsOn...)
		}
		d.natByID[aws.ToString(nat.NatGatewayId)] = node.ID.Name
		d.nodes = append(d.nodes, node)
		d.client.cacheID(node.ID, aws.ToString(nat.NatGatewayId))
	}
	return nil
}

func (d *describer) routeTables(ctx context.Context) error {
	out, err := d.client.api.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: prefixFilters(d.prefix)})
	if err != nil {
		return classify(fmt.Errorf("failed to list route tables: %w", err))
	}
	for _, table := range out.RouteTables {
		tagMap := fromEC2Tags(table.Tags)
		node := &topology.Node{
			ID:    topology.ID{Kind: topology.KindRouteTable, Name: tagMap[tags.KeyName]},
			Attrs: map[string]string{},
			Tags:  tagMap,
		}

		for _, route := range table.Routes {
			if aws.ToString(route.DestinationCidrBlock) != defaultRoute {
				continue
			}
			if igwName, ok := d.igwByID[aws.ToString(route.GatewayId)]; ok {
				node.Attrs[topology.AttrTier] = naming.TierPublic
				node.Attrs[topology.AttrRouteTarget] = igwName
				node.DependsOn = []topology.ID{{Kind: topology.KindInternetGateway, Name: igwName}}
			}
			if natName, ok := d.natByID[aws.ToString(route.NatGatewayId)]; ok {
				node.Attrs[topology.AttrTier] = naming.TierPrivate
				node.Attrs[topology.AttrRouteTarget] = natName
				node.DependsOn = []topology.ID{{Kind: topology.KindNATGateway, Name: natName}}
			}
			break
		}
		// A table whose default route is missing still needs a tier so
		// the update path knows which gateway kind to point it at.
		if _, ok := node.Attrs[topology.AttrTier]; !ok {
			if strings.Contains(node.ID.Name, "-"+naming.TierPrivate+"-") {
				node.Attrs[topology.AttrTier] = naming.TierPrivate
			} else {
				node.Attrs[topology.AttrTier] = naming.TierPublic
			}
		}

		d.nodes = append(d.nodes, node)
		d.client.cacheID(node.ID, aws.ToString(table.RouteTableId))

		d.associations(node.ID, table)
	}
	return nil
}

// associations synthesizes association nodes from a table's association
// list. EC2 associations cannot carry tags, so the tag set is mirrored from
// the associated subnet to keep planning stable.
func (d *describer) associations(table topology.ID, raw types.RouteTable) {
	for _, assoc := range raw.Associations {
		if aws.ToBool(assoc.Main) {
			continue
		}
		subnet, ok := d.subnetByID[aws.ToString(assoc.SubnetId)]
		if !ok {
			continue
		}
		tier, index, ok := parseSubnetName(d.prefix, subnet.ID.Name)
		if !ok {
			continue
		}
		name := naming.Association(d.prefix, tier, index)
		tagMap := make(map[string]string, len(subnet.Tags))
		for k, v := range subnet.Tags {
			tagMap[k] = v
		}
		tagMap[tags.KeyName] = name

		d.nodes = append(d.nodes, &topology.Node{
			ID: topology.ID{Kind: topology.KindAssociation, Name: name},
			Attrs: map[string]string{
				topology.AttrSubnet:     subnet.ID.Name,
				topology.AttrRouteTable: table.Name,
			},
			Tags:      tagMap,
			DependsOn: []topology.ID{subnet.ID, table},
		})
	}
}

// parseSubnetName splits a managed subnet name into its tier and 1-based
// index. Names follow <prefix>-<tier>-<index>.
func parseSubnetName(prefix, name string) (tier string, index int, ok bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return "", 0, false
	}
	tier, idx, found := strings.Cut(rest, "-")
	if !found || (tier != naming.TierPublic && tier != naming.TierPrivate) {
		return "", 0, false
	}
	index, err := strconv.Atoi(idx)
	if err != nil || index < 1 {
		return "", 0, false
	}
	return tier, index, true
}
