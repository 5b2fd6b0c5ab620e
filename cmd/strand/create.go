package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
)

var createCmd = &cobra.Command{
	Use:     "create [name]",
	Aliases: []string{"mk", "new"},
	GroupID: groupEntities,
	Short:   "Create a new thread",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		description, _ := cmd.Flags().GetString("description")
		statusStr, _ := cmd.Flags().GetString("status")
		tempStr, _ := cmd.Flags().GetString("temp")
		sizeStr, _ := cmd.Flags().GetString("size")
		importance, _ := cmd.Flags().GetInt("importance")
		parentQuery, _ := cmd.Flags().GetString("parent")
		groupQuery, _ := cmd.Flags().GetString("group")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		force, _ := cmd.Flags().GetBool("force")

		guardThreadName(name, "", force)

		t := &types.Thread{
			Name:        name,
			Description: description,
			Status:      types.Status(statusStr),
			Temperature: types.Temperature(tempStr),
			Size:        types.Size(sizeStr),
			Importance:  importance,
			Tags:        tags,
		}
		if parentQuery != "" {
			t.ParentID = mustEntity(parentQuery).ID()
		}
		if groupQuery != "" {
			t.GroupID = mustGroup(groupQuery).ID
		}
		t.SetDefaults()
		if err := t.Validate(); err != nil {
			if jsonOutput {
				outputJSONError(err, "validation")
			}
			FatalError("%v", err)
		}

		if err := db.CreateThread(rootCtx, t); err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(t)
			return
		}
		if !quietFlag {
			fmt.Printf("Created thread %s: %s\n", t.ID, t.Name)
		}
	},
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "Thread description")
	createCmd.Flags().String("status", "", "Initial status (default: active)")
	createCmd.Flags().String("temp", "", "Initial temperature (default: tepid)")
	createCmd.Flags().String("size", "", "Size estimate (default: medium)")
	createCmd.Flags().IntP("importance", "i", 0, "Importance 1-5 (default: 3)")
	createCmd.Flags().StringP("parent", "p", "", "Parent thread or container (id, name, or fuzzy match)")
	createCmd.Flags().StringP("group", "g", "", "Group (id, name, or fuzzy match)")
	createCmd.Flags().StringSliceP("tags", "t", nil, "Tags (comma-separated)")
	createCmd.Flags().Bool("force", false, "Allow a duplicate thread name")
	rootCmd.AddCommand(createCmd)
}
