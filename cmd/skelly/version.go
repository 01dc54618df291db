package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/skelly"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of skelly",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "skelly version %s\n", strings.TrimSpace(skelly.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
