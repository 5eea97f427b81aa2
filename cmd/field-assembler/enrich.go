package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"field-assembler/engine"
)

type enrichOptions struct {
	typeName string
	groups   []string
	strategy string
	indent   bool
}

func newEnrichCmd(opts *options) *cobra.Command {
	eo := &enrichOptions{}

	cmd := &cobra.Command{
		Use:   "enrich [file]",
		Short: "Enrich a JSON document or array of documents",
		Long: `Reads JSON documents from file (or standard input when omitted or "-"),
enriches them as the given logical type and writes them to standard output.
Isolated failures are reported on standard error and do not fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, opts, eo, args)
		},
	}

	cmd.Flags().StringVarP(&eo.typeName, "type", "t", "", "declared type name of the documents")
	cmd.Flags().StringSliceVarP(&eo.groups, "groups", "g", nil, "active operation groups (default: all)")
	cmd.Flags().StringVar(&eo.strategy, "strategy", "", "assemble strategy: sequential or unordered (overrides the configuration)")
	cmd.Flags().BoolVar(&eo.indent, "indent", false, "indent the output")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runEnrich(cmd *cobra.Command, opts *options, eo *enrichOptions, args []string) error {
	var extra []engine.Option

	if eo.strategy != "" {
		st, err := engine.ParseStrategy(eo.strategy)
		if err != nil {
			return err
		}

		extra = append(extra, engine.WithStrategy(st))
	}

	e, err := opts.newEngine(cmd, extra...)
	if err != nil {
		return err
	}
	defer e.Close()

	doc, err := readDocument(cmd, args)
	if err != nil {
		return err
	}

	report, err := e.ExecuteAs(cmd.Context(), eo.typeName, doc, eo.groups...)
	if err != nil {
		return err
	}

	for _, d := range report.Diagnostics.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", d.String())
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if eo.indent {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(doc)
}

// readDocument decodes the input keeping numbers exact; keys are normalised
// by the containers.
func readDocument(cmd *cobra.Command, args []string) (any, error) {
	var r io.Reader = cmd.InOrStdin()

	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()

		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}

	return doc, nil
}
