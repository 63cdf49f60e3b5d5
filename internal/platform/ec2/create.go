package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/netforge/internal/naming"
	"github.com/imamik/netforge/internal/retry"
	"github.com/imamik/netforge/internal/topology"
)

// Create materializes one resource node. It is idempotent: a resource that
// already exists under the node's name is left alone.
func (c *RealClient) Create(ctx context.Context, node *topology.Node) error {
	prefix := nodePrefix(node)

	if node.ID.Kind != topology.KindAssociation {
		providerID, err := c.resolve(ctx, node.ID, prefix)
		if err != nil {
			return err
		}
		if providerID != "" {
			return nil
		}
	}

	switch node.ID.Kind {
	case topology.KindNetwork:
		return c.createNetwork(ctx, node)
	case topology.KindInternetGateway:
		return c.createInternetGateway(ctx, node, prefix)
	case topology.KindSubnet:
		return c.createSubnet(ctx, node, prefix)
	case topology.KindNATGateway:
		return c.createNATGateway(ctx, node, prefix)
	case topology.KindRouteTable:
		return c.createRouteTable(ctx, node, prefix)
	case topology.KindAssociation:
		return c.createAssociation(ctx, node, prefix)
	default:
		return retry.Fatal(fmt.Errorf("unknown resource kind %q", node.ID.Kind))
	}
}

func (c *RealClient) createNetwork(ctx context.Context, node *topology.Node) error {
	out, err := c.api.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(node.Attrs[topology.AttrCIDR]),
		TagSpecifications: tagSpec(types.ResourceTypeVpc, node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to create network %q: %w", node.ID.Name, err))
	}
	c.cacheID(node.ID, aws.ToString(out.Vpc.VpcId))
	return nil
}

func (c *RealClient) createInternetGateway(ctx context.Context, node *topology.Node, prefix string) error {
	vpcID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindNetwork, Name: naming.Network(prefix)}, prefix)
	if err != nil {
		return err
	}

	out, err := c.api.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: tagSpec(types.ResourceTypeInternetGateway, node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to create internet gateway %q: %w", node.ID.Name, err))
	}
	igwID := aws.ToString(out.InternetGateway.InternetGatewayId)
	c.cacheID(node.ID, igwID)

	_, err = c.api.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: aws.String(igwID),
		VpcId:             aws.String(vpcID),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to attach internet gateway %q: %w", node.ID.Name, err))
	}
	return nil
}

func (c *RealClient) createSubnet(ctx context.Context, node *topology.Node, prefix string) error {
	vpcID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindNetwork, Name: naming.Network(prefix)}, prefix)
	if err != nil {
		return err
	}

	out, err := c.api.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(node.Attrs[topology.AttrCIDR]),
		AvailabilityZone:  aws.String(node.Attrs[topology.AttrZone]),
		TagSpecifications: tagSpec(types.ResourceTypeSubnet, node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to create subnet %q: %w", node.ID.Name, err))
	}
	subnetID := aws.ToString(out.Subnet.SubnetId)
	c.cacheID(node.ID, subnetID)

	if node.Attrs[topology.AttrTier] == naming.TierPublic {
		_, err = c.api.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            aws.String(subnetID),
			MapPublicIpOnLaunch: &types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
		if err != nil {
			return classify(fmt.Errorf("failed to enable public IPs on subnet %q: %w", node.ID.Name, err))
		}
	}
	return nil
}

func (c *RealClient) createNATGateway(ctx context.Context, node *topology.Node, prefix string) error {
	subnetID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindSubnet, Name: node.Attrs[topology.AttrSubnet]}, prefix)
	if err != nil {
		return err
	}

	eipTags := make(map[string]string, len(node.Tags))
	for k, v := range node.Tags {
		eipTags[k] = v
	}
	eipTags["Name"] = node.ID.Name + "-eip"

	addr, err := c.api.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            types.DomainTypeVpc,
		TagSpecifications: tagSpec(types.ResourceTypeElasticIp, eipTags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to allocate elastic IP for %q: %w", node.ID.Name, err))
	}

	out, err := c.api.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          aws.String(subnetID),
		AllocationId:      addr.AllocationId,
		TagSpecifications: tagSpec(types.ResourceTypeNatgateway, node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to create NAT gateway %q: %w", node.ID.Name, err))
	}
	natID := aws.ToString(out.NatGateway.NatGatewayId)
	c.cacheID(node.ID, natID)

	// Dependents route through this gateway, so block until it is usable.
	waiter := ec2.NewNatGatewayAvailableWaiter(c.api)
	err = waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}}, natWaitTimeout)
	if err != nil {
		return classify(fmt.Errorf("NAT gateway %q did not become available: %w", node.ID.Name, err))
	}
	return nil
}

func (c *RealClient) createRouteTable(ctx context.Context, node *topology.Node, prefix string) error {
	vpcID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindNetwork, Name: naming.Network(prefix)}, prefix)
	if err != nil {
		return err
	}

	out, err := c.api.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpec(types.ResourceTypeRouteTable, node.Tags),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to create route table %q: %w", node.ID.Name, err))
	}
	tableID := aws.ToString(out.RouteTable.RouteTableId)
	c.cacheID(node.ID, tableID)

	return c.setDefaultRoute(ctx, node, prefix, tableID, false)
}

// setDefaultRoute points the table's 0.0.0.0/0 route at the node's gateway
// target. With replace set an existing default route is rewritten in place.
func (c *RealClient) setDefaultRoute(ctx context.Context, node *topology.Node, prefix, tableID string, replace bool) error {
	target := node.Attrs[topology.AttrRouteTarget]
	in := routeTarget{}
	if node.Attrs[topology.AttrTier] == naming.TierPublic {
		igwID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindInternetGateway, Name: target}, prefix)
		if err != nil {
			return err
		}
		in.gatewayID = igwID
	} else {
		natID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindNATGateway, Name: target}, prefix)
		if err != nil {
			return err
		}
		in.natGatewayID = natID
	}

	var err error
	if replace {
		_, err = c.api.ReplaceRoute(ctx, &ec2.ReplaceRouteInput{
			RouteTableId:         aws.String(tableID),
			DestinationCidrBlock: aws.String(defaultRoute),
			GatewayId:            in.gateway(),
			NatGatewayId:         in.nat(),
		})
	} else {
		_, err = c.api.CreateRoute(ctx, &ec2.CreateRouteInput{
			RouteTableId:         aws.String(tableID),
			DestinationCidrBlock: aws.String(defaultRoute),
			GatewayId:            in.gateway(),
			NatGatewayId:         in.nat(),
		})
	}
	if err != nil {
		return classify(fmt.Errorf("failed to set default route on %q: %w", node.ID.Name, err))
	}
	return nil
}

type routeTarget struct {
	gatewayID    string
	natGatewayID string
}

func (r routeTarget) gateway() *string {
	if r.gatewayID == "" {
		return nil
	}
	return aws.String(r.gatewayID)
}

func (r routeTarget) nat() *string {
	if r.natGatewayID == "" {
		return nil
	}
	return aws.String(r.natGatewayID)
}

func (c *RealClient) createAssociation(ctx context.Context, node *topology.Node, prefix string) error {
	subnetID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindSubnet, Name: node.Attrs[topology.AttrSubnet]}, prefix)
	if err != nil {
		return err
	}
	tableID, err := c.resolveRequired(ctx, topology.ID{Kind: topology.KindRouteTable, Name: node.Attrs[topology.AttrRouteTable]}, prefix)
	if err != nil {
		return err
	}

	// Associations carry no tags, so existence is checked through the
	// table's association list instead of a tag lookup.
	assocID, currentTable, err := c.findAssociation(ctx, prefix, subnetID)
	if err != nil {
		return err
	}
	if assocID != "" {
		if currentTable == tableID {
			c.cacheID(node.ID, assocID)
			return nil
		}
		return retry.Fatal(fmt.Errorf("subnet %q is already associated with another route table", node.Attrs[topology.AttrSubnet]))
	}

	out, err := c.api.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: aws.String(tableID),
		SubnetId:     aws.String(subnetID),
	})
	if err != nil {
		return classify(fmt.Errorf("failed to associate %q with %q: %w",
			node.Attrs[topology.AttrSubnet], node.Attrs[topology.AttrRouteTable], err))
	}
	c.cacheID(node.ID, aws.ToString(out.AssociationId))
	return nil
}

// findAssociation returns the association id and route table id currently
// bound to a subnet, or empty strings when the subnet is unassociated.
func (c *RealClient) findAssociation(ctx context.Context, prefix, subnetID string) (assocID, tableID string, err error) {
	out, err := c.api.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: prefixFilters(prefix)})
	if err != nil {
		return "", "", classify(fmt.Errorf("failed to list route tables: %w", err))
	}
	for _, table := range out.RouteTables {
		for _, assoc := range table.Associations {
			if aws.ToString(assoc.SubnetId) == subnetID {
				return aws.ToString(assoc.RouteTableAssociationId), aws.ToString(table.RouteTableId), nil
			}
		}
	}
	return "", "", nil
}

// resolveRequired is resolve for identities that must already exist, such as
// dependencies of the node being created.
func (c *RealClient) resolveRequired(ctx context.Context, id topology.ID, prefix string) (string, error) {
	providerID, err := c.resolve(ctx, id, prefix)
	if err != nil {
		return "", err
	}
	if providerID == "" {
		// The dependency was applied first but may not be visible yet;
		// leaving this retryable covers eventual consistency.
		return "", fmt.Errorf("%s not found", id)
	}
	return providerID, nil
}
