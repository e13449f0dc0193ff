package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <script>",
		Short: "Replay a script and show the final buffer layout",
		Long: `The layout command replays an allocation script and prints the records,
gaps and statistics of the allocator as it was the last time it was live:
just before a destroy, or at the end of the script.

Example:
  blockctl layout testdata/reference.txt
  blockctl layout ops.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(args)
		},
	}
	return cmd
}

func runLayout(args []string) error {
	rep, err := replayScript(args[0])
	if err != nil {
		return err
	}
	if rep.Final == nil {
		return errors.New("script never created an allocator")
	}
	snap := rep.Final

	if jsonOut {
		return printJSON(snap)
	}

	s := snap.Stats
	printInfo("\nLayout (capacity %s bytes)\n", formatNumber(s.Capacity))
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Records:\n")
	if len(snap.Records) == 0 {
		printInfo("  (none)\n")
	}
	for _, r := range snap.Records {
		printInfo("  [%8d, %8d]  %10s  owner %d\n", r.Start, r.End, formatBytes(r.Len()), r.Owner)
	}

	printInfo("\nGaps:\n")
	if len(snap.Gaps) == 0 {
		printInfo("  (none)\n")
	}
	for _, g := range snap.Gaps {
		printInfo("  [%8d, %8d]  %10s\n", g.Start, g.End, formatBytes(g.Len()))
	}

	printInfo("\nStats:\n")
	printInfo("  Used: %s (%s)\n", formatBytes(s.Used), formatPercent(s.Used, s.Capacity))
	printInfo("  Free: %s\n", formatBytes(s.Free))
	printInfo("  Largest Gap: %s\n", formatBytes(s.LargestGap))
	printInfo("  Records: %s\n", formatNumber(s.Records))
	printInfo("  Owners: %s\n", formatNumber(s.Owners))
	printInfo("  Allocs: %s (%s failed)\n", formatNumber(s.Allocs), formatNumber(s.Failures))
	printInfo("  Frees: %s (%s bytes released)\n", formatNumber(s.Frees), formatNumber(s.FreedBytes))
	return nil
}
