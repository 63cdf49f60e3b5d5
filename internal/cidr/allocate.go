package cidr

import (
	"errors"
	"fmt"
	"net"
)

// SubdivisionBits is the fixed netmask extension applied to the top-level
// block, yielding 16 equal subdivisions. With one public and one private
// block per zone this supports at most [MaxZones] zones.
const SubdivisionBits = 4

// MaxZones is the maximum number of availability zones the fixed subdivision
// supports (half the subdivisions for each tier).
const MaxZones = (1 << SubdivisionBits) / 2

// ErrAddressSpaceExhausted is returned when the top-level block cannot be
// divided into enough disjoint blocks for the requested zone count.
var ErrAddressSpaceExhausted = errors.New("address space exhausted")

// Allocation holds the tier blocks derived from one top-level block.
// Public[i] and Private[i] belong to the zone at position i.
type Allocation struct {
	Public  []string
	Private []string
}

// Allocate partitions topBlock into public and private tier blocks, one pair
// per zone. Public blocks occupy subdivision indices [0, zoneCount), private
// blocks occupy [zoneCount, 2*zoneCount).
//
// Allocate is a pure function of its inputs: identical arguments always yield
// identical, identically ordered blocks, so re-planning never reshuffles
// existing subnets.
func Allocate(topBlock string, zoneCount int) (*Allocation, error) {
	if zoneCount < 1 {
		return nil, fmt.Errorf("zone count must be at least 1, got %d", zoneCount)
	}

	_, network, err := net.ParseCIDR(topBlock)
	if err != nil {
		return nil, fmt.Errorf("invalid top-level block %q: %w", topBlock, err)
	}
	if network.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 blocks are supported, got %s", topBlock)
	}

	if zoneCount > MaxZones {
		return nil, fmt.Errorf("%w: %s provides %d subdivisions, %d zones require %d",
			ErrAddressSpaceExhausted, topBlock, 1<<SubdivisionBits, zoneCount, 2*zoneCount)
	}

	maskSize, totalBits := network.Mask.Size()
	if maskSize+SubdivisionBits > totalBits {
		return nil, fmt.Errorf("%w: %s cannot be split into /%d subdivisions",
			ErrAddressSpaceExhausted, topBlock, maskSize+SubdivisionBits)
	}

	alloc := &Allocation{
		Public:  make([]string, zoneCount),
		Private: make([]string, zoneCount),
	}

	for i := 0; i < zoneCount; i++ {
		public, err := Subnet(topBlock, SubdivisionBits, i)
		if err != nil {
			return nil, fmt.Errorf("failed to derive public block %d: %w", i, err)
		}
		private, err := Subnet(topBlock, SubdivisionBits, zoneCount+i)
		if err != nil {
			return nil, fmt.Errorf("failed to derive private block %d: %w", i, err)
		}
		alloc.Public[i] = public
		alloc.Private[i] = private
	}

	return alloc, nil
}
