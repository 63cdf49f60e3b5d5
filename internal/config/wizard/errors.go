package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errPrefixRequired = errors.New("name prefix is required")
	errPrefixInvalid  = errors.New("name prefix must be 1-32 lowercase alphanumeric characters or hyphens, starting with a letter")
	errCIDRRequired   = errors.New("CIDR is required")
	errCIDRInvalid    = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
	errZonesRequired  = errors.New("at least one zone is required")
	errTooManyZones   = errors.New("at most 8 zones are supported")
)
