package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/hierarchy"
	"github.com/strandtools/strand/internal/ui"
)

var mergeCmd = &cobra.Command{
	Use:     "merge [source] [target]",
	GroupID: groupHierarchy,
	Short:   "Fold one thread into another",
	Long: `Merge moves the source's children under the target, unions the
progress and details logs in timestamp order, unions tags, and merges
dependencies keyed by their target (the target thread's entry wins a
conflict; entries pointing at either side of the merge are dropped).
The source is archived afterwards unless --keep-source. Use --dry-run
to see the outcome without changing anything.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		source := mustThread(args[0])
		target := mustThread(args[1])

		var opts hierarchy.MergeOptions
		opts.KeepSource, _ = cmd.Flags().GetBool("keep-source")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

		ops := hierarchy.New(db, logger)
		res, err := ops.Merge(rootCtx, source.ID, target.ID, opts)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(res)
			return
		}
		if opts.DryRun {
			fmt.Printf("Dry run: merging %s into %s would:\n", source.Name, target.Name)
		} else if !quietFlag {
			fmt.Printf("Merged %s into %s:\n", source.Name, target.Name)
		} else {
			return
		}
		if n := len(res.ReparentedChildren); n > 0 {
			fmt.Printf("  reparent %d child(ren)\n", n)
		}
		fmt.Printf("  union logs: %d progress, %d detail entries\n", res.ProgressMerged, res.DetailsMerged)
		if len(res.Tags) > 0 {
			fmt.Printf("  tags: #%s\n", strings.Join(res.Tags, " #"))
		}
		if n := len(res.DroppedDependencies); n > 0 {
			fmt.Printf("  drop %d dependency entr%s referencing the merged pair\n", n, plural(n, "y", "ies"))
		}
		if res.SourceArchived || (opts.DryRun && !opts.KeepSource) {
			fmt.Printf("  %s\n", ui.Muted("source archived"))
		}
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	mergeCmd.Flags().Bool("keep-source", false, "Leave the source thread unarchived")
	mergeCmd.Flags().Bool("dry-run", false, "Report the merge without applying it")
	rootCmd.AddCommand(mergeCmd)
}
