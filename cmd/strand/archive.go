package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/hierarchy"
	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var archiveCmd = &cobra.Command{
	Use:     "archive [entity]",
	GroupID: groupHierarchy,
	Short:   "Archive a thread (and optionally its subtree)",
	Long: `Archive freezes a thread: status archived, temperature frozen. The
record stays in the document; 'strand list --all' still shows it. With
descendants present the command refuses and previews the subtree unless
--cascade is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cascade, _ := cmd.Flags().GetBool("cascade")
		e := mustEntity(args[0])

		ops := hierarchy.New(db, logger)
		res, err := ops.Archive(rootCtx, e.ID(), cascade)
		if err != nil {
			FatalError("%v", err)
		}
		reportCascade(res, "archive")
	},
}

var restoreCmd = &cobra.Command{
	Use:     "restore [entity]",
	GroupID: groupHierarchy,
	Short:   "Restore an archived thread (and optionally its subtree)",
	Long: `Restore is the inverse of archive: archived threads return to active
with temperature tepid. Subtree handling matches archive, including the
refuse-and-preview behavior without --cascade.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cascade, _ := cmd.Flags().GetBool("cascade")
		e := mustEntity(args[0])

		ops := hierarchy.New(db, logger)
		res, err := ops.Restore(rootCtx, e.ID(), cascade)
		if err != nil {
			FatalError("%v", err)
		}
		reportCascade(res, "restore")
	},
}

func reportCascade(res *hierarchy.CascadeResult, verb string) {
	if jsonOutput {
		outputJSON(res)
		return
	}
	if !res.Applied {
		fmt.Printf("%s has %d descendants; refusing to %s without --cascade:\n",
			res.Root.Name(), len(res.Entries), verb)
		printSubtree(res.Root, res.Entries)
		return
	}
	if !quietFlag {
		fmt.Printf("Applied %s to %d thread(s) under %s\n", verb, len(res.Changed), res.Root.Name())
	}
}

// printSubtree renders a flattened depth-first preview with tree
// connectors. Depth alone is enough; the entries arrive in DFS order.
func printSubtree(root *types.Entity, entries []hierarchy.TreeEntry) {
	fmt.Printf("%s %s\n", ui.Muted(root.ID()), root.Name())
	for _, e := range entries {
		indent := strings.Repeat(ui.TreeIndent, e.Depth-1)
		kind := ""
		if e.Entity.Kind == types.KindContainer {
			kind = ui.Muted(" (container)")
		}
		fmt.Printf("%s%s%s %s%s\n", indent, ui.TreeBranch, ui.Muted(e.Entity.ID()), e.Entity.Name(), kind)
	}
}

func init() {
	archiveCmd.Flags().Bool("cascade", false, "Archive the whole subtree")
	restoreCmd.Flags().Bool("cascade", false, "Restore the whole subtree")
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
}
