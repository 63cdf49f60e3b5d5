// Package ec2 implements the provider backend against the AWS EC2 API.
//
// RealClient maps resource nodes onto VPC primitives: networks become VPCs,
// NAT devices become NAT gateways with an allocated elastic IP, and route
// tables carry a default route to their gateway. All lookups are tag-scoped
// to the managed prefix, and every create is idempotent: an existing resource
// with matching attributes is a no-op.
package ec2
