// Package cidr implements the address-space math for the network layout.
//
// [Subnet] mirrors Terraform's cidrsubnet function for IPv4 prefixes.
// [Allocate] partitions a top-level block into public and private tier
// blocks, one pair per availability zone, using a fixed 16-way subdivision.
package cidr
