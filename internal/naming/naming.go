package naming

import "fmt"

// Tier identifies the subnet tier within the layout.
const (
	TierPublic  = "public"
	TierPrivate = "private"
)

// Network returns the name of the top-level network.
func Network(prefix string) string {
	return prefix
}

// InternetGateway returns the name of the internet gateway.
func InternetGateway(prefix string) string {
	return fmt.Sprintf("%s-igw", prefix)
}

// Subnet returns the name of the subnet for a tier and 1-based zone position.
func Subnet(prefix, tier string, index int) string {
	return fmt.Sprintf("%s-%s-%d", prefix, tier, index)
}

// NATGateway returns the name of the NAT gateway for a 1-based zone position.
// In single-NAT mode the only gateway carries index 1.
func NATGateway(prefix string, index int) string {
	return fmt.Sprintf("%s-nat-%d", prefix, index)
}

// PublicRouteTable returns the name of the shared public route table.
func PublicRouteTable(prefix string) string {
	return fmt.Sprintf("%s-public-rt", prefix)
}

// PrivateRouteTable returns the name of the private route table for a 1-based
// index. In single-NAT mode the only private table carries index 1.
func PrivateRouteTable(prefix string, index int) string {
	return fmt.Sprintf("%s-private-rt-%d", prefix, index)
}

// Association returns the name of the route-table association for a subnet.
func Association(prefix, tier string, index int) string {
	return fmt.Sprintf("%s-%s-rta-%d", prefix, tier, index)
}
