package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/imamik/netforge/internal/retry"
	"github.com/imamik/netforge/internal/topology"
)

// Update reconciles a drifted resource toward the node's desired state.
// Tags and routing are rewritten in place; attributes EC2 cannot change on a
// live resource (a network or subnet block, a NAT gateway's subnet) fail
// permanently so the drift surfaces instead of being silently ignored.
func (c *RealClient) Update(ctx context.Context, node *topology.Node) error {
	prefix := nodePrefix(node)

	if node.ID.Kind == topology.KindAssociation {
		return c.updateAssociation(ctx, node, prefix)
	}

	providerID, err := c.resolveRequired(ctx, node.ID, prefix)
	if err != nil {
		return err
	}

	if err := c.checkImmutable(ctx, node, prefix, providerID); err != nil {
		return err
	}

	_, err = c.api.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{providerID},
		Tags:      toEC2Tags(node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to update tags on %s: %w", node.ID, err))
	}

	if node.ID.Kind == topology.KindRouteTable {
		return c.updateRouteTable(ctx, node, prefix, providerID)
	}
	return nil
}

// checkImmutable compares the live resource against desired attributes that
// cannot be changed in place.
func (c *RealClient) checkImmutable(ctx context.Context, node *topology.Node, prefix, providerID string) error {
	switch node.ID.Kind {
	case topology.KindNetwork:
		out, err := c.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{providerID}})
		if err != nil {
			return classify(fmt.Errorf("failed to describe network %q: %w", node.ID.Name, err))
		}
		if len(out.Vpcs) == 1 && aws.ToString(out.Vpcs[0].CidrBlock) != node.Attrs[topology.AttrCIDR] {
			return retry.Fatal(fmt.Errorf("network %q block cannot be changed in place", node.ID.Name))
		}
	case topology.KindSubnet:
		out, err := c.api.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{providerID}})
		if err != nil {
			return classify(fmt.Errorf("failed to describe subnet %q: %w", node.ID.Name, err))
		}
		if len(out.Subnets) == 1 {
			subnet := out.Subnets[0]
			if aws.ToString(subnet.CidrBlock) != node.Attrs[topology.AttrCIDR] ||
				aws.ToString(subnet.AvailabilityZone) != node.Attrs[topology.AttrZone] {
				return retry.Fatal(fmt.Errorf("subnet %q block and zone cannot be changed in place", node.ID.Name))
			}
		}
	case topology.KindNATGateway:
		subnetID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindSubnet, Name: node.Attrs[topology.AttrSubnet]}, prefix)
		if err != nil {
			return err
		}
		out, err := c.api.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{providerID}})
		if err != nil {
			return classify(fmt.Errorf("failed to describe NAT gateway %q: %w", node.ID.Name, err))
		}
		if len(out.NatGateways) == 1 && aws.ToString(out.NatGateways[0].SubnetId) != subnetID {
			return retry.Fatal(fmt.Errorf("NAT gateway %q cannot move between subnets", node.ID.Name))
		}
	}
	return nil
}

// updateRouteTable rewrites the default route when the table's gateway
// target drifted, creating the route if it is missing entirely.
func (c *RealClient) updateRouteTable(ctx context.Context, node *topology.Node, prefix, tableID string) error {
	out, err := c.api.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{RouteTableIds: []string{tableID}})
	if err != nil {
		return classify(fmt.Errorf("failed to describe route table %q: %w", node.ID.Name, err))
	}
	hasDefault := false
	if len(out.RouteTables) == 1 {
		for _, route := range out.RouteTables[0].Routes {
			if aws.ToString(route.DestinationCidrBlock) == defaultRoute {
				hasDefault = true
				break
			}
		}
	}
	return c.setDefaultRoute(ctx, node, prefix, tableID, hasDefault)
}

// updateAssociation repoints a subnet at its desired route table.
func (c *RealClient) updateAssociation(ctx context.Context, node *topology.Node, prefix string) error {
	subnetID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindSubnet, Name: node.Attrs[topology.AttrSubnet]}, prefix)
	if err != nil {
		return err
	}
	tableID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindRouteTable, Name: node.Attrs[topology.AttrRouteTable]}, prefix)
	if err != nil {
		return err
	}

	assocID, currentTable, err := c.findAssociation(ctx, prefix, subnetID)
	if err != nil {
		return err
	}
	if assocID == "" {
		return c.createAssociation(ctx, node, prefix)
	}
	if currentTable == tableID {
		return nil
	}

	out, err := c.api.ReplaceRouteTableAssociation(ctx, &ec2.ReplaceRouteTableAssociationInput{
		AssociationId: aws.String(assocID),
		RouteTableId:  aws.String(tableID),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to repoint %q at %q: %w",
			node.Attrs[topology.AttrSubnet], node.Attrs[topology.AttrRouteTable], err))
	}
	c.cacheID(node.ID, aws.ToString(out.NewAssociationId))
	return nil
}
