// Package graph generates DOT and Mermaid graphs of the registered
// operations, their parameters and their response fields.
package graph

import (
	"io"
	"strconv"
	"strings"

	"github.com/emicklei/dot"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/operation"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// ParseFormat validates a graph format name.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatDOT:
		return FormatDOT, true
	case FormatMermaid:
		return FormatMermaid, true
	default:
		return "", false
	}
}

// Generator creates operation graphs.
type Generator struct {
	// IncludeFields adds the selectable response fields of each operation.
	IncludeFields bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByOperation groups each operation with its nodes.
	ClusterByOperation bool
}

// Generate creates a graph of ops and writes it to w.
func (g *Generator) Generate(ops []apigw.Operation, w io.Writer) error {
	graph := g.buildGraph(ops)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidLeftToRight)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(ops []apigw.Operation) (string, error) {
	var sb strings.Builder
	if err := g.Generate(ops, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(ops []apigw.Operation) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	for _, op := range ops {
		d := op.Descriptor()

		parent := graph
		if g.ClusterByOperation {
			parent = graph.Subgraph("cluster_"+d.Name, dot.ClusterOption{})
			parent.Attr("label", d.Command)
			parent.Attr("style", "rounded")
			parent.Attr("bgcolor", "lightyellow")
		}

		opNode := parent.Node(d.Name)
		opNode.Label(d.Name + "\\n[" + d.Command + "]")
		if d.Mutating {
			opNode.Attr("color", "red")
		}

		for _, p := range d.Params {
			n := parent.Node(nodeID(d.Name, p.Name))
			n.Label(paramLabel(p))
			n.Attr("shape", "ellipse")
			if !p.Required {
				n.Attr("style", "dashed")
			}

			e := graph.Edge(n, opNode)
			if p.PipelineValue {
				e.Attr("color", "blue")
				e.Label("pipeline")
			}
			if p.Name == d.PassThrough {
				pe := graph.Edge(opNode, n)
				pe.Attr("style", "dotted")
				pe.Label("pass-thru")
			}
		}

		if !g.IncludeFields {
			continue
		}
		for _, f := range d.Fields {
			n := parent.Node(nodeID(d.Name, "out."+f))
			n.Label(f)
			n.Attr("shape", "note")
			e := graph.Edge(opNode, n)
			if sel, err := operation.ParseSelector(d.DefaultSelect, d); err == nil && sel.Kind == operation.SelectField && sel.Name == f {
				e.Attr("color", "blue")
				e.Label("default")
			}
		}
	}

	return graph
}

func nodeID(op, name string) string {
	return op + "." + name
}

// paramLabel renders a parameter with its position, e.g. "DomainName\n[0]".
func paramLabel(p operation.ParameterSpec) string {
	if p.Position == operation.NoPosition {
		return p.Name
	}
	return p.Name + "\\n[" + strconv.Itoa(p.Position) + "]"
}
