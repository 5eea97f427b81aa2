package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInvalidRules = errors.New("rules are invalid")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the rules against the configured containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.newEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			diags := e.Validate()

			for _, d := range diags.Errors {
				fmt.Fprintln(cmd.OutOrStdout(), "error:", d.String())
			}

			for _, d := range diags.Warnings {
				fmt.Fprintln(cmd.OutOrStdout(), "warning:", d.String())
			}

			if diags.HasErrors() {
				return fmt.Errorf("%w: %d errors", errInvalidRules, len(diags.Errors))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "ok")

			return nil
		},
	}
}
