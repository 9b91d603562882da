package cmd

import (
	"fmt"

	"github.com/ecmax-lang/ecmax/pkg/esvm"
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List known stage-3-class feature flags",
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range esvm.ListFeatures() {
			fmt.Printf("%-20s %s\n", f.Name, f.URL)
		}
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
