package cidr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Subnet calculates a subnet address given a network prefix, a netmask size
// increase, and a subnet number. This mimics the behavior of Terraform's
// cidrsubnet function.
//
// Parameters:
//   - prefix: The network prefix (e.g., "10.0.0.0/16")
//   - newbits: The number of additional bits to add to the prefix length (e.g., 4 for /20 inside /16)
//   - netnum: The zero-based index of the subnet to calculate
//
// Note: Only IPv4 addresses are supported. IPv6 addresses will return an error.
func Subnet(prefix string, newbits int, netnum int) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}

	// Validate IPv4
	if network.IP.To4() == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits

	if newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	maxSubnets := 1 << newbits
	if netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	ip := network.IP
	if ip.To4() != nil {
		ip = ip.To4()
	}

	ipInt := uintFromIP(ip)

	// Size of each subdivision, offset by index
	subnetSize := 1 << (totalBits - newMaskSize)
	offset := netnum * subnetSize

	// #nosec G115
	ipInt += uint64(offset)

	newIP := ipFromUint(ipInt)

	return fmt.Sprintf("%s/%d", newIP.String(), newMaskSize), nil
}

// uintFromIP converts an IPv4 address to uint64.
func uintFromIP(ip net.IP) uint64 {
	if len(ip) == 16 {
		if ip4 := ip.To4(); ip4 != nil {
			return uint64(binary.BigEndian.Uint32(ip4))
		}
		return 0
	}
	return uint64(binary.BigEndian.Uint32(ip))
}

// ipFromUint converts a uint64 value back to an IPv4 address.
func ipFromUint(val uint64) net.IP {
	ip := make(net.IP, 4)
	// #nosec G115
	binary.BigEndian.PutUint32(ip, uint32(val))
	return ip
}
