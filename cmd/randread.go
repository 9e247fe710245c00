/*
Copyright © 2025 jesse galley <jesse@jessegalley.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"blkbench/internal/bench"
)

// randreadCmd represents the randread command
var randreadCmd = &cobra.Command{
	Use:   "randread <target>",
	Short: "Random positioned reads",
	Long: `Reads blocks at uniformly random offsets within the target file.
If the target is missing or smaller than --size it is filled with data first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBenchmark(bench.RandRead, args[0])
	},
}

func init() {
	rootCmd.AddCommand(randreadCmd)
}
