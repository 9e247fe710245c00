/*
Copyright © 2025 jesse galley <jesse@jessegalley.net>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"blkbench/internal/bench"
)

// seqwriteCmd represents the write command
var seqwriteCmd = &cobra.Command{
	Use:   "write <target>",
	Short: "Sequential writes",
	Long: `Truncate-creates the target file and writes --size bytes to it in
--bs sized blocks. Only a single worker may write; --numjobs greater
than one is rejected.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBenchmark(bench.SeqWrite, args[0])
	},
}

func init() {
	rootCmd.AddCommand(seqwriteCmd)
}
