package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"gr"},
	GroupID: groupEntities,
	Short:   "Manage groups (cross-cutting labels over the tree)",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new group",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		g := &types.Group{Name: args[0], Description: description}
		if err := db.CreateGroup(rootCtx, g); err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(g)
			return
		}
		if !quietFlag {
			fmt.Printf("Created group %s: %s\n", g.ID, g.Name)
		}
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups with member counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		groups, err := db.AllGroups(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		entities, err := db.Entities(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		members := make(map[string]int)
		for _, e := range entities {
			if gid := e.GroupID(); gid != "" {
				members[gid]++
			}
		}

		if jsonOutput {
			type row struct {
				*types.Group
				Members int `json:"members"`
			}
			out := make([]row, 0, len(groups))
			for _, g := range groups {
				out = append(out, row{Group: g, Members: members[g.ID]})
			}
			outputJSON(out)
			return
		}
		if len(groups) == 0 {
			fmt.Println("No groups found.")
			return
		}
		for _, g := range groups {
			fmt.Printf("%s  %s  %s\n", g.ID, g.Name, ui.Muted(fmt.Sprintf("%d members", members[g.ID])))
		}
	},
}

var groupAssignCmd = &cobra.Command{
	Use:   "assign [group] [entity...]",
	Short: "Assign threads or containers to a group",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		g := mustGroup(args[0])
		for _, query := range args[1:] {
			e := mustEntity(query)
			var err error
			switch e.Kind {
			case types.KindThread:
				_, err = db.UpdateThread(rootCtx, e.ID(), types.ThreadPatch{GroupID: &g.ID})
			case types.KindContainer:
				_, err = db.UpdateContainer(rootCtx, e.ID(), types.ContainerPatch{GroupID: &g.ID})
			}
			if err != nil {
				FatalError("%v", err)
			}
			if !quietFlag && !jsonOutput {
				fmt.Printf("Assigned %s to group %s\n", e.Name(), g.Name)
			}
		}
		if jsonOutput {
			outputJSON(map[string]any{"group": g.ID, "assigned": len(args) - 1})
		}
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete [group]",
	Short: "Delete a group, clearing it from its members",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g := mustGroup(args[0])
		if err := db.DeleteGroup(rootCtx, g.ID); err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]string{"deleted": g.ID})
			return
		}
		if !quietFlag {
			fmt.Printf("Deleted group %s: %s\n", g.ID, g.Name)
		}
	},
}

func init() {
	groupCreateCmd.Flags().StringP("description", "d", "", "Group description")
	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupAssignCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}
