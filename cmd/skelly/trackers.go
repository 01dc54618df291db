package main

import (
	"fmt"

	"github.com/aretw0/skelly/internal/cli"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/spf13/cobra"
)

var trackersCmd = &cobra.Command{
	Use:   "trackers",
	Short: "List the known tracker layouts",
	Long:  `Lists the built-in tracker layouts and those loaded from the configured layout files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cli.BuildRegistry(cfg.Layouts)
		if err != nil {
			return err
		}
		var layouts []registry.TrackerLayout
		for _, kind := range reg.Kinds() {
			l, err := reg.Lookup(kind)
			if err != nil {
				return err
			}
			layouts = append(layouts, l)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTrackers(layouts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trackersCmd)
}
