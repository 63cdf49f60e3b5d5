// Package topology models the desired network layout as an explicit DAG of
// typed resource nodes.
//
// [Build] derives the full graph for one spec: network, internet gateway,
// per-zone subnet tiers, NAT gateways, route tables, and route-table
// associations, with "depends on" edges between them. The graph is rebuilt
// from scratch on every planning pass and never mutated in place.
package topology
