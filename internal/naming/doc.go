// Package naming derives deterministic names for every network resource.
//
// All resources follow consistent naming patterns so that re-planning with an
// unchanged spec produces identical names, and so that resources can be
// identified and cleaned up by prefix.
package naming
