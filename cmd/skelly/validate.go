package main

import (
	"fmt"

	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <layout-file>",
	Short: "Check tracker layout files for consistency",
	Long:  `Reports every problem in a layout file: unknown regions, index overlaps, out-of-range indices and name/index count mismatches.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layouts, err := file.LoadLayouts(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		failed := 0
		for _, l := range layouts {
			if err := l.Validate(); err != nil {
				failed++
				fmt.Fprintf(out, "tracker %q is invalid:\n", l.Kind)
				for _, e := range domain.Errors(err) {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				continue
			}
			fmt.Fprintf(out, "tracker %q is valid (%d landmarks, %d regions)\n", l.Kind, l.TotalLandmarks(), len(l.Regions))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d layouts failed validation", failed, len(layouts))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
