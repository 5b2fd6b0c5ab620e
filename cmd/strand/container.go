package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var containerCmd = &cobra.Command{
	Use:     "container",
	Aliases: []string{"ct"},
	GroupID: groupEntities,
	Short:   "Manage containers (pure grouping nodes)",
}

var containerCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new container",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		parentQuery, _ := cmd.Flags().GetString("parent")
		groupQuery, _ := cmd.Flags().GetString("group")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		force, _ := cmd.Flags().GetBool("force")

		guardContainerName(args[0], "", force)

		c := &types.Container{
			Name:        args[0],
			Description: description,
			Tags:        tags,
		}
		if parentQuery != "" {
			c.ParentID = mustEntity(parentQuery).ID()
		}
		if groupQuery != "" {
			c.GroupID = mustGroup(groupQuery).ID
		}
		if err := db.CreateContainer(rootCtx, c); err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(c)
			return
		}
		if !quietFlag {
			fmt.Printf("Created container %s: %s\n", c.ID, c.Name)
		}
	},
}

var containerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List containers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter := types.ContainerFilter{}
		if v, _ := cmd.Flags().GetString("parent"); v != "" {
			id := mustEntity(v).ID()
			filter.ParentID = &id
		}
		if v, _ := cmd.Flags().GetString("group"); v != "" {
			id := mustGroup(v).ID
			filter.GroupID = &id
		}
		if v, _ := cmd.Flags().GetStringSlice("tag"); len(v) > 0 {
			filter.TagsAny = v
		}
		filter.Search, _ = cmd.Flags().GetString("search")

		containers, err := db.FindContainers(rootCtx, filter)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(containers)
			return
		}
		if len(containers) == 0 {
			fmt.Println("No containers found.")
			return
		}
		for _, c := range containers {
			fmt.Printf("%s  %s  %s\n", c.ID, c.Name, ui.Muted(c.Description))
		}
	},
}

func init() {
	containerCreateCmd.Flags().StringP("description", "d", "", "Container description")
	containerCreateCmd.Flags().StringP("parent", "p", "", "Parent thread or container")
	containerCreateCmd.Flags().StringP("group", "g", "", "Group")
	containerCreateCmd.Flags().StringSliceP("tags", "t", nil, "Tags (comma-separated)")
	containerCreateCmd.Flags().Bool("force", false, "Allow a duplicate name")

	containerListCmd.Flags().String("parent", "", "Filter by parent")
	containerListCmd.Flags().String("group", "", "Filter by group")
	containerListCmd.Flags().StringSlice("tag", nil, "Filter by tags (any-of)")
	containerListCmd.Flags().String("search", "", "Free-text search over name and description")

	containerCmd.AddCommand(containerCreateCmd)
	containerCmd.AddCommand(containerListCmd)
	rootCmd.AddCommand(containerCmd)
}
