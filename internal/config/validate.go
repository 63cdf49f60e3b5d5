package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

// ErrInvalidSpec marks spec validation failures. Planning is never attempted
// for a spec that fails validation.
var ErrInvalidSpec = errors.New("invalid spec")

// ValidationError describes a single spec field failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// namePrefixPattern restricts prefixes to names every provider accepts.
var namePrefixPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// Validate checks the spec and returns an error wrapping [ErrInvalidSpec]
// that enumerates every failing field.
func (s *Spec) Validate() error {
	var problems []ValidationError

	if s.NamePrefix == "" {
		problems = append(problems, ValidationError{
			Field:   "name_prefix",
			Message: "must not be empty",
		})
	} else if !namePrefixPattern.MatchString(s.NamePrefix) {
		problems = append(problems, ValidationError{
			Field:   "name_prefix",
			Message: fmt.Sprintf("%q must start with a lowercase letter and contain only lowercase letters, digits, and hyphens (max 32 chars)", s.NamePrefix),
		})
	}

	if _, network, err := net.ParseCIDR(s.TopBlock); err != nil {
		problems = append(problems, ValidationError{
			Field:   "top_block",
			Message: fmt.Sprintf("%q is not a valid CIDR block", s.TopBlock),
		})
	} else if network.IP.To4() == nil {
		problems = append(problems, ValidationError{
			Field:   "top_block",
			Message: fmt.Sprintf("%q is IPv6, only IPv4 blocks are supported", s.TopBlock),
		})
	}

	if len(s.Zones) == 0 {
		problems = append(problems, ValidationError{
			Field:   "zones",
			Message: "at least one availability zone is required",
		})
	}
	seen := make(map[string]bool, len(s.Zones))
	for i, zone := range s.Zones {
		if zone == "" {
			problems = append(problems, ValidationError{
				Field:   fmt.Sprintf("zones[%d]", i),
				Message: "zone identifier must not be empty",
			})
			continue
		}
		if seen[zone] {
			problems = append(problems, ValidationError{
				Field:   fmt.Sprintf("zones[%d]", i),
				Message: fmt.Sprintf("duplicate zone %q", zone),
			})
		}
		seen[zone] = true
	}

	switch s.NATMode {
	case NATModeSingle, NATModePerZone:
	default:
		problems = append(problems, ValidationError{
			Field:   "nat_mode",
			Message: fmt.Sprintf("%q is not a valid mode (valid: %s, %s)", s.NATMode, NATModeSingle, NATModePerZone),
		})
	}

	if s.State.Bucket != "" && s.State.Region == "" {
		problems = append(problems, ValidationError{
			Field:   "state.region",
			Message: "required when state.bucket is set",
		})
	}

	if len(problems) == 0 {
		return nil
	}

	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}
	return fmt.Errorf("%w:\n  %s", ErrInvalidSpec, strings.Join(msgs, "\n  "))
}
