package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apigwv2 "github.com/lex00/apigwv2-go"
	"github.com/lex00/apigwv2-go/internal/apigw"
	"github.com/lex00/apigwv2-go/internal/operation"
	"github.com/lex00/apigwv2-go/internal/render"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "operations",
		Aliases: []string{"list"},
		Short:   "List the available operations",
		Long: `Operations lists every operation with its parameters and selectable fields.

Examples:
    apigwv2 operations
    apigwv2 operations --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings(cmd)
			if err != nil {
				return err
			}
			return outputOperationList(a.stdout, listOperations(apigw.Operations()), settings.Format)
		},
	}
}

func listOperations(ops []apigw.Operation) apigwv2.OperationList {
	list := apigwv2.OperationList{
		Operations: make([]apigwv2.OperationInfo, 0, len(ops)),
	}
	for _, op := range ops {
		list.Operations = append(list.Operations, describeOperation(op.Descriptor()))
	}
	return list
}

func describeOperation(d *operation.Descriptor) apigwv2.OperationInfo {
	info := apigwv2.OperationInfo{
		Name:          d.Name,
		Command:       d.Command,
		Synopsis:      d.Synopsis,
		Mutating:      d.Mutating,
		DefaultSelect: d.DefaultSelect,
		PassThrough:   d.PassThrough,
		Parameters:    make([]apigwv2.ParameterInfo, 0, len(d.Params)),
		Fields:        d.Fields,
	}
	for _, p := range d.Params {
		pi := apigwv2.ParameterInfo{
			Name:          p.Name,
			Required:      p.Required,
			Pipeline:      p.Pipeline,
			PipelineValue: p.PipelineValue,
			Description:   p.Description,
		}
		if p.Position != operation.NoPosition {
			pos := p.Position
			pi.Position = &pos
		}
		info.Parameters = append(info.Parameters, pi)
	}
	return info
}

func outputOperationList(w io.Writer, list apigwv2.OperationList, format string) error {
	if format == "" {
		format = string(render.FormatText)
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return usageError(err)
	}

	if f != render.FormatText {
		return render.NewWriter(w, f).WriteRecord(list)
	}

	if len(list.Operations) == 0 {
		fmt.Fprintln(w, "No operations registered.")
		return nil
	}

	fmt.Fprintf(w, "Registered operations (%d):\n", len(list.Operations))
	for _, op := range list.Operations {
		mark := ""
		if op.Mutating {
			mark = " (mutating)"
		}
		fmt.Fprintf(w, "\n  %s: %s%s\n", op.Command, op.Name, mark)
		for _, p := range op.Parameters {
			var notes []string
			if p.Required {
				notes = append(notes, "required")
			}
			if p.Position != nil {
				notes = append(notes, fmt.Sprintf("position %d", *p.Position))
			}
			if p.Pipeline {
				notes = append(notes, "pipeline")
			}
			fmt.Fprintf(w, "    --%-14s %s\n", p.Name, strings.Join(notes, ", "))
		}
		if len(op.Fields) > 0 {
			fmt.Fprintf(w, "    fields: %s\n", strings.Join(op.Fields, ", "))
		}
	}
	return nil
}
