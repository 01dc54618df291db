package main

import (
	"github.com/aretw0/skelly/internal/cli"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a raw tracker array into actor aspects",
	Long: `Loads a (frames x landmarks x dims) JSON array, and optionally a
(frames x landmarks) reprojection error array, into a human actor and prints
a per-aspect summary. With --save the actor snapshot is written to the
configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.SplitOptions{Config: cfg.ActorConfig()}
		opts.Actor, _ = flags.GetString("actor")
		opts.Input, _ = flags.GetString("input")
		opts.Errors, _ = flags.GetString("errors")
		opts.Save, _ = flags.GetBool("save")
		opts.Validation, _ = flags.GetBool("validate")
		if flags.Changed("tracker") {
			opts.Config.TrackerKind, _ = flags.GetString("tracker")
		}
		if flags.Changed("face") {
			opts.Config.IncludeFace, _ = flags.GetBool("face")
		}
		if flags.Changed("hands") {
			opts.Config.IncludeHands, _ = flags.GetBool("hands")
		}

		layouts := cfg.Layouts
		if extra, _ := flags.GetStringSlice("layouts"); len(extra) > 0 {
			layouts = append(layouts, extra...)
		}
		reg, err := cli.BuildRegistry(layouts)
		if err != nil {
			return err
		}

		backend, err := cli.OpenBackend(cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		_, err = cli.RunSplit(cmd.Context(), opts, reg, backend.Store, logger, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	f := splitCmd.Flags()
	f.StringP("input", "i", "", "JSON file with the raw tracked points")
	f.StringP("errors", "e", "", "JSON file with the raw reprojection error")
	f.String("actor", "actor", "Actor name, used as the snapshot key")
	f.StringP("tracker", "t", "", "Tracker kind (overrides [actor].tracker)")
	f.Bool("face", true, "Include the face aspect")
	f.Bool("hands", true, "Include the hand aspects")
	f.StringSlice("layouts", nil, "Extra tracker layout files")
	f.Bool("save", false, "Save the actor snapshot to the configured store")
	f.Bool("validate", true, "Check layout disjointness and bounds")
	_ = splitCmd.MarkFlagRequired("input")
}
