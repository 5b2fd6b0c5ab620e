package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/hierarchy"
	"github.com/strandtools/strand/internal/ui"
)

var cloneCmd = &cobra.Command{
	Use:     "clone [entity]",
	GroupID: groupHierarchy,
	Short:   "Clone an entity as a fresh template",
	Long: `Clone copies scalar fields and tags under a fresh id and fresh
timestamps. Progress, details, and dependencies are never copied; a
clone is a template, not history. With --with-children the direct
subtree is cloned too, reparented onto the new root.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := mustEntity(args[0])

		opts := hierarchy.CloneOptions{}
		opts.NewName, _ = cmd.Flags().GetString("name")
		if opts.NewName == "" {
			opts.NewName = source.Name() + " (copy)"
		}
		opts.WithChildren, _ = cmd.Flags().GetBool("with-children")
		if cmd.Flags().Changed("parent") {
			v, _ := cmd.Flags().GetString("parent")
			pid := ""
			if v != "" {
				pid = mustEntity(v).ID()
			}
			opts.NewParentID = &pid
		}
		if cmd.Flags().Changed("group") {
			v, _ := cmd.Flags().GetString("group")
			gid := ""
			if v != "" {
				gid = mustGroup(v).ID
			}
			opts.NewGroupID = &gid
		}

		ops := hierarchy.New(db, logger)
		created, err := ops.Clone(rootCtx, source.ID(), opts)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		if !quietFlag {
			root := created[0]
			fmt.Printf("Cloned %s as %s (%s)\n", source.Name(), root.Name(), root.ID())
			for _, e := range created[1:] {
				fmt.Printf("  %s%s %s\n", ui.TreeBranch, ui.Muted(e.ID()), e.Name())
			}
		}
	},
}

func init() {
	cloneCmd.Flags().String("name", "", "Name for the clone (default: '<source> (copy)')")
	cloneCmd.Flags().StringP("parent", "p", "", "Parent for the clone (empty string detaches to root)")
	cloneCmd.Flags().StringP("group", "g", "", "Group for the clone and its children (empty string clears)")
	cloneCmd.Flags().Bool("with-children", false, "Clone the direct subtree as well")
	rootCmd.AddCommand(cloneCmd)
}
