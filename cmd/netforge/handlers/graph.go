package handlers

import (
	"fmt"
	"io"

	"github.com/imamik/netforge/internal/graphviz"
)

// Graph renders the spec's resource graph to w. The provider is never
// consulted: the graph is a pure function of the spec.
func Graph(configPath, format string, clusterByKind bool, w io.Writer) error {
	spec, err := loadSpec(configPath)
	if err != nil {
		return err
	}

	graph, err := buildDesired(spec)
	if err != nil {
		return err
	}

	var f graphviz.Format
	switch format {
	case "", string(graphviz.FormatDOT):
		f = graphviz.FormatDOT
	case string(graphviz.FormatMermaid):
		f = graphviz.FormatMermaid
	default:
		return fmt.Errorf("unknown graph format %q (expected dot or mermaid)", format)
	}

	generator := &graphviz.Generator{Format: f, ClusterByKind: clusterByKind}
	return generator.Generate(graph, w)
}
