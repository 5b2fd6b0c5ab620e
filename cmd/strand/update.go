package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
)

var updateCmd = &cobra.Command{
	Use:     "update [entity]",
	Aliases: []string{"edit"},
	GroupID: groupEntities,
	Short:   "Update fields on a thread or container",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := mustEntity(args[0])
		switch e.Kind {
		case types.KindThread:
			updateThread(cmd, e.Thread)
		case types.KindContainer:
			updateContainer(cmd, e.Container)
		}
	},
}

func updateThread(cmd *cobra.Command, t *types.Thread) {
	var patch types.ThreadPatch
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		force, _ := cmd.Flags().GetBool("force")
		guardThreadName(v, t.ID, force)
		patch.Name = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		patch.Description = &v
	}
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		s := types.Status(v)
		if !s.IsValid() {
			FatalError("invalid status %q", v)
		}
		if !t.Status.CanTransitionTo(s) {
			FatalErrorWithHint(
				fmt.Sprintf("cannot move %s from %s to %s", t.ID, t.Status, s),
				"Completed threads can only be archived, archived threads only restored to active")
		}
		patch.Status = &s
		// Restoring an archived thread also thaws it.
		if t.Status == types.StatusArchived && s == types.StatusActive {
			temp := types.TempTepid
			patch.Temperature = &temp
		}
	}
	if cmd.Flags().Changed("temp") {
		v, _ := cmd.Flags().GetString("temp")
		temp := types.Temperature(v)
		if !temp.IsValid() {
			FatalError("invalid temperature %q", v)
		}
		patch.Temperature = &temp
	}
	if cmd.Flags().Changed("size") {
		v, _ := cmd.Flags().GetString("size")
		s := types.Size(v)
		if !s.IsValid() {
			FatalError("invalid size %q", v)
		}
		patch.Size = &s
	}
	if cmd.Flags().Changed("importance") {
		v, _ := cmd.Flags().GetInt("importance")
		if v < 1 || v > 5 {
			FatalError("importance must be between 1 and 5 (got %d)", v)
		}
		patch.Importance = &v
	}
	if cmd.Flags().Changed("parent") {
		FatalErrorWithHint("--parent is not an update field", "Use 'strand move' so the reparent is cycle-checked")
	}
	if cmd.Flags().Changed("group") {
		v, _ := cmd.Flags().GetString("group")
		gid := ""
		if v != "" {
			gid = mustGroup(v).ID
		}
		patch.GroupID = &gid
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetStringSlice("tags")
		patch.Tags = &v
	}

	updated, err := db.UpdateThread(rootCtx, t.ID, patch)
	if err != nil {
		FatalError("%v", err)
	}
	if jsonOutput {
		outputJSON(updated)
		return
	}
	if !quietFlag {
		fmt.Printf("Updated thread %s: %s\n", updated.ID, updated.Name)
	}
}

func updateContainer(cmd *cobra.Command, c *types.Container) {
	for _, f := range []string{"status", "temp", "size", "importance"} {
		if cmd.Flags().Changed(f) {
			FatalError("--%s only applies to threads; %s is a container", f, c.ID)
		}
	}
	var patch types.ContainerPatch
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		force, _ := cmd.Flags().GetBool("force")
		guardContainerName(v, c.ID, force)
		patch.Name = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		patch.Description = &v
	}
	if cmd.Flags().Changed("parent") {
		FatalErrorWithHint("--parent is not an update field", "Use 'strand move' so the reparent is cycle-checked")
	}
	if cmd.Flags().Changed("group") {
		v, _ := cmd.Flags().GetString("group")
		gid := ""
		if v != "" {
			gid = mustGroup(v).ID
		}
		patch.GroupID = &gid
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetStringSlice("tags")
		patch.Tags = &v
	}

	updated, err := db.UpdateContainer(rootCtx, c.ID, patch)
	if err != nil {
		FatalError("%v", err)
	}
	if jsonOutput {
		outputJSON(updated)
		return
	}
	if !quietFlag {
		fmt.Printf("Updated container %s: %s\n", updated.ID, updated.Name)
	}
}

func init() {
	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().StringP("description", "d", "", "New description")
	updateCmd.Flags().String("status", "", "New status (transition-checked)")
	updateCmd.Flags().String("temp", "", "New temperature")
	updateCmd.Flags().String("size", "", "New size")
	updateCmd.Flags().IntP("importance", "i", 0, "New importance (1-5)")
	updateCmd.Flags().StringP("parent", "p", "", "Rejected; use 'strand move'")
	updateCmd.Flags().StringP("group", "g", "", "New group (empty string clears)")
	updateCmd.Flags().StringSliceP("tags", "t", nil, "Replace the tag set")
	updateCmd.Flags().Bool("force", false, "Allow renaming to a duplicate name")
	rootCmd.AddCommand(updateCmd)
}
