package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/hierarchy"
)

var moveCmd = &cobra.Command{
	Use:     "move [entity]",
	Aliases: []string{"mv", "reparent"},
	GroupID: groupHierarchy,
	Short:   "Move an entity to a new parent",
	Long: `Move reparents a thread or container. The new parent's ancestor chain
is walked first; a move that would create a cycle is refused with the
offending chain. --to-root detaches the entity entirely.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := mustEntity(args[0])
		toRoot, _ := cmd.Flags().GetBool("to-root")
		toQuery, _ := cmd.Flags().GetString("to")
		inheritGroup, _ := cmd.Flags().GetBool("inherit-group")

		if toRoot == (toQuery == "") {
			FatalError("exactly one of --to or --to-root is required")
		}
		newParentID := ""
		if !toRoot {
			newParentID = mustEntity(toQuery).ID()
		}

		ops := hierarchy.New(db, logger)
		moved, err := ops.Reparent(rootCtx, e.ID(), newParentID, inheritGroup)
		if err != nil {
			var cyc *hierarchy.CycleError
			if errors.As(err, &cyc) {
				if jsonOutput {
					outputJSONError(err, "cycle")
				}
				FatalErrorWithHint(err.Error(), "An entity cannot become its own ancestor")
			}
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(moved)
			return
		}
		if !quietFlag {
			if newParentID == "" {
				fmt.Printf("Moved %s to the root\n", moved.Name())
			} else {
				fmt.Printf("Moved %s under %s\n", moved.Name(), dependencyLabel(newParentID))
			}
		}
	},
}

func init() {
	moveCmd.Flags().String("to", "", "New parent (id, name, or fuzzy match)")
	moveCmd.Flags().Bool("to-root", false, "Detach from any parent")
	moveCmd.Flags().Bool("inherit-group", false, "Also take the new parent's group")
	rootCmd.AddCommand(moveCmd)
}
