package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/hierarchy"
	"github.com/strandtools/strand/internal/types"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [entity]",
	Aliases: []string{"rm"},
	GroupID: groupEntities,
	Short:   "Permanently delete a thread or container",
	Long: `Delete removes the record for good; progress and details go with it.
For soft removal use 'strand archive' instead. Entities with children
are refused: delete or move the children first, or pass --cascade to
delete the whole subtree.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		cascade, _ := cmd.Flags().GetBool("cascade")
		e := mustEntity(args[0])

		ops := hierarchy.New(db, logger)
		entries, err := ops.Descendants(rootCtx, e.ID())
		if err != nil {
			FatalError("%v", err)
		}
		if len(entries) > 0 && !cascade {
			if jsonOutput {
				outputJSONError(fmt.Errorf("%s has %d descendants", e.ID(), len(entries)), "has_children")
			}
			fmt.Fprintf(os.Stderr, "Error: %s has %d descendant(s); refusing to delete:\n", e.Name(), len(entries))
			printSubtree(e, entries)
			fmt.Fprintln(os.Stderr, "Hint: delete or move the children first, or pass --cascade")
			os.Exit(1)
		}

		if !force && !jsonOutput {
			n := len(entries) + 1
			var confirmed bool
			err := huh.NewConfirm().
				Title(fmt.Sprintf("Permanently delete %d record(s) under %q?", n, e.Name())).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed).
				Run()
			if err != nil || !confirmed {
				fmt.Fprintln(os.Stderr, "Delete cancelled.")
				os.Exit(0)
			}
		}

		// Children first so the guard invariant holds even if a later
		// delete fails midway.
		for i := len(entries) - 1; i >= 0; i-- {
			if err := deleteEntity(entries[i].Entity); err != nil {
				FatalError("%v", err)
			}
		}
		if err := deleteEntity(e); err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]any{"deleted": e.ID(), "records": len(entries) + 1})
			return
		}
		if !quietFlag {
			fmt.Printf("Deleted %d record(s)\n", len(entries)+1)
		}
	},
}

func deleteEntity(e *types.Entity) error {
	switch e.Kind {
	case types.KindThread:
		return db.DeleteThread(rootCtx, e.ID())
	case types.KindContainer:
		return db.DeleteContainer(rootCtx, e.ID())
	}
	return fmt.Errorf("unknown entity kind %q", e.Kind)
}

func init() {
	deleteCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	deleteCmd.Flags().Bool("cascade", false, "Delete the whole subtree")
	rootCmd.AddCommand(deleteCmd)
}
