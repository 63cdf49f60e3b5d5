// Package tags provides consistent tagging utilities for network resources.
package tags
