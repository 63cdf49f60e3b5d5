package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/imamik/netforge/internal/naming"
	"github.com/imamik/netforge/internal/retry"
	"github.com/imamik/netforge/internal/topology"
)

// Delete removes one resource node. A resource that is already gone is a
// no-op, so replays of a partially failed destroy converge.
func (c *RealClient) Delete(ctx context.Context, node *topology.Node) error {
	prefix := nodePrefix(node)

	if node.ID.Kind == topology.KindAssociation {
		return c.deleteAssociation(ctx, node, prefix)
	}

	providerID, err := c.resolve(ctx, node.ID, prefix)
	if err != nil {
		return err
	}
	if providerID == "" {
		return nil
	}
	defer c.dropID(node.ID)

	switch node.ID.Kind {
	case topology.KindNetwork:
		_, err = c.api.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(providerID)})
	case topology.KindInternetGateway:
		err = c.deleteInternetGateway(ctx, node, prefix, providerID)
	case topology.KindSubnet:
		_, err = c.api.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(providerID)})
	case topology.KindNATGateway:
		err = c.deleteNATGateway(ctx, node, providerID)
	case topology.KindRouteTable:
		_, err = c.api.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: aws.String(providerID)})
	default:
		return retry.Fatal(fmt.Errorf("unknown resource kind %q", node.ID.Kind))
	}

	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return classify(fmt.Errorf("failed to delete %s: %w", node.ID, err))
	}
	return nil
}

func (c *RealClient) deleteInternetGateway(ctx context.Context, node *topology.Node, prefix, igwID string) error {
	vpcID, err := c.resolve(ctx, topology.ID{Kind: topology.KindNetwork, Name: naming.Network(prefix)}, prefix)
	if err != nil {
		return err
	}
	if vpcID != "" {
		_, err = c.api.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
			InternetGatewayId: aws.String(igwID),
			VpcId:             aws.String(vpcID),
		})
		if err != nil && !isNotFound(err) {
			return classify(fmt.Errorf("failed to detach internet gateway %q: %w", node.ID.Name, err))
		}
	}
	_, err = c.api.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{InternetGatewayId: aws.String(igwID)})
	return err
}

// deleteNATGateway tears down the gateway, waits for the deletion to settle
// and then releases its elastic IP. Releasing earlier fails while the
// address is still bound to the draining gateway.
func (c *RealClient) deleteNATGateway(ctx context.Context, node *topology.Node, natID string) error {
	describe, err := c.api.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}})
	if err != nil && !isNotFound(err) {
		return classify(fmt.Errorf("failed to describe NAT gateway %q: %w", node.ID.Name, err))
	}
	var allocationIDs []string
	if describe != nil {
		for _, nat := range describe.NatGateways {
			for _, addr := range nat.NatGatewayAddresses {
				if id := aws.ToString(addr.AllocationId); id != "" {
					allocationIDs = append(allocationIDs, id)
				}
			}
		}
	}

	_, err = c.api.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{NatGatewayId: aws.String(natID)})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return classify(fmt.Errorf("failed to delete NAT gateway %q: %w", node.ID.Name, err))
	}

	waiter := ec2.NewNatGatewayDeletedWaiter(c.api)
	err = waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}}, natWaitTimeout)
	if err != nil {
		return classify(fmt.Errorf("NAT gateway %q did not finish deleting: %w", node.ID.Name, err))
	}

	for _, allocationID := range allocationIDs {
		_, err = c.api.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{AllocationId: aws.String(allocationID)})
		if err != nil && !isNotFound(err) {
			return classify(fmt.Errorf("failed to release elastic IP of %q: %w", node.ID.Name, err))
		}
	}
	return nil
}

func (c *RealClient) deleteAssociation(ctx context.Context, node *topology.Node, prefix string) error {
	subnetID, err := c.resolve(ctx, topology.ID{Kind: topology.KindSubnet, Name: node.Attrs[topology.AttrSubnet]}, prefix)
	if err != nil {
		return err
	}
	if subnetID == "" {
		// Subnet already gone, and its associations with it.
		return nil
	}

	assocID, _, err := c.findAssociation(ctx, prefix, subnetID)
	if err != nil {
		return err
	}
	if assocID == "" {
		return nil
	}
	defer c.dropID(node.ID)

	_, err = c.api.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{AssociationId: aws.String(assocID)})
	if err != nil && !isNotFound(err) {
		return classify(fmt.Errorf("failed to delete %s: %w", node.ID, err))
	}
	return nil
}
