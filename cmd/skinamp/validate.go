package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(cc *cliContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [skin.wsz]",
		Short: "Check that a skin loads",
		Long:  "validate exits non-zero when the skin cannot be applied, or with --strict when it loads with warnings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := cc.newEngine()
			defer engine.Shutdown()

			if err := engine.Manager.LoadSkin(context.Background(), args[0]); err != nil {
				return err
			}
			skin := engine.Manager.Current()
			out := cmd.OutOrStdout()

			warnings := skin.Warnings()
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %v\n", w)
			}
			if strict && len(warnings) > 0 {
				return fmt.Errorf("%s: %d warnings", skin.Name(), len(warnings))
			}

			fmt.Fprintf(out, "%s: ok (%d warnings)\n", skin.Name(), len(warnings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
