package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"field-assembler/engine"
	"field-assembler/internal/plan"
)

type planOptions struct {
	typeName string
	format   string
	dump     bool
}

func newPlanCmd(opts *options) *cobra.Command {
	po := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved operation configuration of a type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, opts, po)
		},
	}

	cmd.Flags().StringVarP(&po.typeName, "type", "t", "", "declared type name")
	cmd.Flags().StringVarP(&po.format, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&po.dump, "dump", false, "print a debug dump instead")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *options, po *planOptions) error {
	e, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	cfg, err := e.ConfigurationByName(po.typeName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if po.dump {
		_, err := fmt.Fprint(out, plan.Dump(cfg))
		return err
	}

	summaries := engine.Summarize(cfg)

	switch po.format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(summaries); err != nil {
			return err
		}

		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(summaries)
	default:
		return fmt.Errorf("unknown output format %q", po.format)
	}
}
