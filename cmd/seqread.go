/*
Copyright © 2025 jesse galley <jesse@jessegalley.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"blkbench/internal/bench"
)

// seqreadCmd represents the read command
var seqreadCmd = &cobra.Command{
	Use:   "read <target>",
	Short: "Sequential reads",
	Long: `Reads the target file front to back in --bs sized blocks, each worker
on its own descriptor. If the target is missing or smaller than --size
it is filled with data first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBenchmark(bench.SeqRead, args[0])
	},
}

func init() {
	rootCmd.AddCommand(seqreadCmd)
}
