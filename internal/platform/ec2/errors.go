package ec2

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/imamik/netforge/internal/retry"
)

// fatalCodes are API error codes that no amount of retrying will fix: the
// request itself is wrong or an account limit is hit.
var fatalCodes = map[string]bool{
	"InvalidParameterValue":       true,
	"InvalidParameterCombination": true,
	"InvalidVpc.Range":            true,
	"InvalidSubnet.Range":         true,
	"InvalidSubnet.Conflict":      true,
	"VpcLimitExceeded":            true,
	"SubnetLimitExceeded":         true,
	"NatGatewayLimitExceeded":     true,
	"RouteTableLimitExceeded":     true,
	"AddressLimitExceeded":        true,
	"RouteLimitExceeded":          true,
	"UnauthorizedOperation":       true,
	"AuthFailure":                 true,
	"OptInRequired":               true,
}

// classify marks errors whose API code is known to be permanent so the retry
// loop short-circuits. Throttling, eventual-consistency NotFound responses
// and dependency-ordering violations stay retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if fatalCodes[apiErr.ErrorCode()] {
		return retry.Fatal(err)
	}
	return err
}

// isNotFound reports whether an error is any of the per-resource NotFound
// codes (InvalidVpcID.NotFound, InvalidSubnetID.NotFound, ...).
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.HasSuffix(apiErr.ErrorCode(), ".NotFound")
}
