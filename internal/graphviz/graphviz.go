// Package graphviz renders topology graphs in DOT and Mermaid formats.
package graphviz

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/imamik/netforge/internal/topology"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// shapes gives each resource kind a distinct node shape.
var shapes = map[topology.Kind]string{
	topology.KindNetwork:         "box3d",
	topology.KindInternetGateway: "house",
	topology.KindSubnet:          "box",
	topology.KindNATGateway:      "house",
	topology.KindRouteTable:      "folder",
	topology.KindAssociation:     "cds",
}

// Generator renders a topology graph.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByKind groups nodes of the same resource kind.
	ClusterByKind bool
}

// Generate renders the graph and writes it to w. Edges point from each
// resource to the resources it depends on.
func (g *Generator) Generate(graph *topology.Graph, w io.Writer) error {
	rendered := g.buildGraph(graph)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(rendered, dot.MermaidTopToBottom)
	} else {
		output = rendered.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(graph *topology.Graph) (string, error) {
	var sb strings.Builder
	if err := g.Generate(graph, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(graph *topology.Graph) *dot.Graph {
	rendered := dot.NewGraph(dot.Directed)
	rendered.Attr("rankdir", "TB")

	rendered.NodeInitializer(func(n dot.Node) {
		n.Attr("fontname", "Arial")
	})
	rendered.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontsize", "10")
	})

	nodes := graph.Nodes()
	byID := make(map[topology.ID]dot.Node, len(nodes))

	clusters := make(map[topology.Kind]*dot.Graph)
	for _, node := range nodes {
		parent := rendered
		if g.ClusterByKind {
			cluster, ok := clusters[node.ID.Kind]
			if !ok {
				cluster = rendered.Subgraph(string(node.ID.Kind), dot.ClusterOption{})
				clusters[node.ID.Kind] = cluster
			}
			parent = cluster
		}
		n := parent.Node(node.ID.String())
		n.Attr("shape", shapes[node.ID.Kind])
		n.Label(node.ID.Name)
		byID[node.ID] = n
	}

	for _, node := range nodes {
		for _, dep := range node.DependsOn {
			to, ok := byID[dep]
			if !ok {
				continue
			}
			rendered.Edge(byID[node.ID], to)
		}
	}

	return rendered
}
