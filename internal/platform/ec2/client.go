package ec2

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/netforge/internal/tags"
	"github.com/imamik/netforge/internal/topology"
)

// API is the subset of the EC2 service client the provider uses. The real
// *ec2.Client satisfies it; tests substitute a fake.
type API interface {
	CreateVpc(ctx context.Context, in *ec2.CreateVpcInput, opts ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error)
	DeleteVpc(ctx context.Context, in *ec2.DeleteVpcInput, opts ...func(*ec2.Options)) (*ec2.DeleteVpcOutput, error)
	DescribeVpcs(ctx context.Context, in *ec2.DescribeVpcsInput, opts ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)

	CreateInternetGateway(ctx context.Context, in *ec2.CreateInternetGatewayInput, opts ...func(*ec2.Options)) (*ec2.CreateInternetGatewayOutput, error)
	AttachInternetGateway(ctx context.Context, in *ec2.AttachInternetGatewayInput, opts ...func(*ec2.Options)) (*ec2.AttachInternetGatewayOutput, error)
	DetachInternetGateway(ctx context.Context, in *ec2.DetachInternetGatewayInput, opts ...func(*ec2.Options)) (*ec2.DetachInternetGatewayOutput, error)
	DeleteInternetGateway(ctx context.Context, in *ec2.DeleteInternetGatewayInput, opts ...func(*ec2.Options)) (*ec2.DeleteInternetGatewayOutput, error)
	DescribeInternetGateways(ctx context.Context, in *ec2.DescribeInternetGatewaysInput, opts ...func(*ec2.Options)) (*ec2.DescribeInternetGatewaysOutput, error)

	CreateSubnet(ctx context.Context, in *ec2.CreateSubnetInput, opts ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error)
	DeleteSubnet(ctx context.Context, in *ec2.DeleteSubnetInput, opts ...func(*ec2.Options)) (*ec2.DeleteSubnetOutput, error)
	DescribeSubnets(ctx context.Context, in *ec2.DescribeSubnetsInput, opts ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
	ModifySubnetAttribute(ctx context.Context, in *ec2.ModifySubnetAttributeInput, opts ...func(*ec2.Options)) (*ec2.ModifySubnetAttributeOutput, error)

	AllocateAddress(ctx context.Context, in *ec2.AllocateAddressInput, opts ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error)
	ReleaseAddress(ctx context.Context, in *ec2.ReleaseAddressInput, opts ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error)

	CreateNatGateway(ctx context.Context, in *ec2.CreateNatGatewayInput, opts ...func(*ec2.Options)) (*ec2.CreateNatGatewayOutput, error)
	DeleteNatGateway(ctx context.Context, in *ec2.DeleteNatGatewayInput, opts ...func(*ec2.Options)) (*ec2.DeleteNatGatewayOutput, error)
	DescribeNatGateways(ctx context.Context, in *ec2.DescribeNatGatewaysInput, opts ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error)

	CreateRouteTable(ctx context.Context, in *ec2.CreateRouteTableInput, opts ...func(*ec2.Options)) (*ec2.CreateRouteTableOutput, error)
	DeleteRouteTable(ctx context.Context, in *ec2.DeleteRouteTableInput, opts ...func(*ec2.Options)) (*ec2.DeleteRouteTableOutput, error)
	DescribeRouteTables(ctx context.Context, in *ec2.DescribeRouteTablesInput, opts ...func(*ec2.Options)) (*ec2.DescribeRouteTablesOutput, error)
	CreateRoute(ctx context.Context, in *ec2.CreateRouteInput, opts ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error)
	ReplaceRoute(ctx context.Context, in *ec2.ReplaceRouteInput, opts ...func(*ec2.Options)) (*ec2.ReplaceRouteOutput, error)

	AssociateRouteTable(ctx context.Context, in *ec2.AssociateRouteTableInput, opts ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error)
	DisassociateRouteTable(ctx context.Context, in *ec2.DisassociateRouteTableInput, opts ...func(*ec2.Options)) (*ec2.DisassociateRouteTableOutput, error)
	ReplaceRouteTableAssociation(ctx context.Context, in *ec2.ReplaceRouteTableAssociationInput, opts ...func(*ec2.Options)) (*ec2.ReplaceRouteTableAssociationOutput, error)

	CreateTags(ctx context.Context, in *ec2.CreateTagsInput, opts ...func(*ec2.Options)) (*ec2.CreateTagsOutput, error)
}

const defaultRoute = "0.0.0.0/0"

// natWaitTimeout bounds how long Create and Delete wait for a NAT gateway to
// reach a settled state. Provisioning regularly takes several minutes.
const natWaitTimeout = 10 * time.Minute

// RealClient converges resource nodes against the EC2 API.
type RealClient struct {
	api API

	// ids caches logical identity to provider id, warmed by creates and
	// lookups within one process. Safe for concurrent actions.
	mu  sync.Mutex
	ids map[topology.ID]string
}

// NewRealClient builds a client from the ambient AWS configuration
// (environment, shared config and credential files, instance metadata).
func NewRealClient(ctx context.Context, region string) (*RealClient, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewRealClientWithAPI(ec2.NewFromConfig(cfg)), nil
}

// NewRealClientWithAPI wraps an existing EC2 API implementation.
func NewRealClientWithAPI(api API) *RealClient {
	return &RealClient{
		api: api,
		ids: make(map[topology.ID]string),
	}
}

func (c *RealClient) cacheID(id topology.ID, providerID string) {
	c.mu.Lock()
	c.ids[id] = providerID
	c.mu.Unlock()
}

func (c *RealClient) cachedID(id topology.ID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	providerID, ok := c.ids[id]
	return providerID, ok
}

func (c *RealClient) dropID(id topology.ID) {
	c.mu.Lock()
	delete(c.ids, id)
	c.mu.Unlock()
}

// resolve returns the provider id for a logical identity, looking it up by
// Name tag within the managed prefix when it is not cached yet.
func (c *RealClient) resolve(ctx context.Context, id topology.ID, prefix string) (string, error) {
	if providerID, ok := c.cachedID(id); ok {
		return providerID, nil
	}

	filters := nameFilters(prefix, id.Name)
	var providerID string
	switch id.Kind {
	case topology.KindNetwork:
		out, err := c.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: filters})
		if err != nil {
			return "", classify(fmt.Errorf("failed to look up network %q: %w", id.Name, err))
		}
		if len(out.Vpcs) > 0 {
			providerID = aws.ToString(out.Vpcs[0].VpcId)
		}
	case topology.KindInternetGateway:
		out, err := c.api.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: filters})
		if err != nil {
			return "", classify(fmt.Errorf("failed to look up internet gateway %q: %w", id.Name, err))
		}
		if len(out.InternetGateways) > 0 {
			providerID = aws.ToString(out.InternetGateways[0].InternetGatewayId)
		}
	case topology.KindSubnet:
		out, err := c.api.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{Filters: filters})
		if err != nil {
			return "", classify(fmt.Errorf("failed to look up subnet %q: %w", id.Name, err))
		}
		if len(out.Subnets) > 0 {
			providerID = aws.ToString(out.Subnets[0].SubnetId)
		}
	case topology.KindNATGateway:
		out, err := c.api.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{Filter: filters})
		if err != nil {
			return "", classify(fmt.Errorf("failed to look up NAT gateway %q: %w", id.Name, err))
		}
		for _, nat := range out.NatGateways {
			if natGone(nat.State) {
				continue
			}
			providerID = aws.ToString(nat.NatGatewayId)
			break
		}
	case topology.KindRouteTable:
		out, err := c.api.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: filters})
		if err != nil {
			return "", classify(fmt.Errorf("failed to look up route table %q: %w", id.Name, err))
		}
		if len(out.RouteTables) > 0 {
			providerID = aws.ToString(out.RouteTables[0].RouteTableId)
		}
	default:
		return "", fmt.Errorf("cannot resolve provider id for %s", id)
	}

	if providerID == "" {
		return "", nil
	}
	c.cacheID(id, providerID)
	return providerID, nil
}

// nameFilters scopes a lookup to one managed resource by display name.
func nameFilters(prefix, name string) []types.Filter {
	key, value := tags.SelectorForPrefix(prefix)
	return []types.Filter{
		{Name: aws.String("tag:" + key), Values: []string{value}},
		{Name: aws.String("tag:" + tags.KeyName), Values: []string{name}},
	}
}

// prefixFilters scopes a listing to every resource managed under one prefix.
func prefixFilters(prefix string) []types.Filter {
	key, value := tags.SelectorForPrefix(prefix)
	return []types.Filter{
		{Name: aws.String("tag:" + key), Values: []string{value}},
		{Name: aws.String("tag:" + tags.KeyManagedBy), Values: []string{tags.ManagedByNetforge}},
	}
}

// natGone reports whether a NAT gateway state means the resource no longer
// counts as existing. Deleted gateways linger in listings for hours.
func natGone(state types.NatGatewayState) bool {
	return state == types.NatGatewayStateDeleted || state == types.NatGatewayStateDeleting ||
		state == types.NatGatewayStateFailed
}

// tagSpec renders a node's tag map as a creation-time tag specification.
func tagSpec(resourceType types.ResourceType, tagMap map[string]string) []types.TagSpecification {
	return []types.TagSpecification{{
		ResourceType: resourceType,
		Tags:         toEC2Tags(tagMap),
	}}
}

func toEC2Tags(tagMap map[string]string) []types.Tag {
	out := make([]types.Tag, 0, len(tagMap))
	for k, v := range tagMap {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return out
}

func fromEC2Tags(ec2Tags []types.Tag) map[string]string {
	out := make(map[string]string, len(ec2Tags))
	for _, t := range ec2Tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}

// nodePrefix returns the managed prefix a node belongs to, taken from its
// policy tags.
func nodePrefix(node *topology.Node) string {
	return node.Tags[tags.KeyPrefix]
}
