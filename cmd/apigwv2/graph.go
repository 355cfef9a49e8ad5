package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		graphFormat   string
		includeFields bool
		cluster       bool
	)

	cmd := &cobra.Command{
		Use:   "graph [operations...]",
		Short: "Generate a graph of operations, parameters and fields",
		Long: `Generate a DOT or Mermaid graph of the operations, the parameters they
bind and the response fields they can select.

The output can be rendered with Graphviz:
    apigwv2 graph | dot -Tpng -o operations.png

Or used in GitHub markdown (Mermaid format):
    apigwv2 graph -g mermaid

Examples:
    apigwv2 graph
    apigwv2 graph update-vpc-link -F          # include response fields
    apigwv2 graph -c                          # cluster by operation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(a, args, graphFormat, includeFields, cluster)
		},
	}

	cmd.Flags().StringVarP(&graphFormat, "graph-format", "g", "dot", "Graph format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeFields, "fields", "F", false, "Include response field nodes")
	cmd.Flags().BoolVarP(&cluster, "cluster", "c", false, "Cluster nodes by operation")

	return cmd
}

func runGraph(a *app, names []string, format string, includeFields, cluster bool) error {
	ops := apigw.Operations()
	if len(names) > 0 {
		ops = nil
		for _, name := range names {
			op, ok := apigw.Lookup(name)
			if !ok {
				return usageError(fmt.Errorf("unknown operation: %s", name))
			}
			ops = append(ops, op)
		}
	}

	graphFormat, ok := graph.ParseFormat(format)
	if !ok {
		return usageError(fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format))
	}

	gen := &graph.Generator{
		Format:             graphFormat,
		IncludeFields:      includeFields,
		ClusterByOperation: cluster,
	}
	return gen.Generate(ops, a.stdout)
}
