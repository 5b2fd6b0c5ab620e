package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show [entity]",
	GroupID: groupEntities,
	Short:   "Show full details for a thread or container",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := mustEntity(args[0])

		if jsonOutput {
			outputJSON(e)
			return
		}
		switch e.Kind {
		case types.KindThread:
			showThread(e.Thread)
		case types.KindContainer:
			showContainer(e.Container)
		}
	},
}

func showThread(t *types.Thread) {
	fmt.Printf("%s %s\n", ui.Header(t.Name), ui.Muted("("+t.ID+")"))
	fmt.Printf("%s %s %s %s\n", ui.StatusBadge(t.Status), ui.TemperatureBadge(t.Temperature),
		ui.ImportanceBadge(t.Importance), ui.Muted(string(t.Size)))
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}
	showCommonFields(t.ParentID, t.GroupID, t.Tags)

	if len(t.Dependencies) > 0 {
		fmt.Printf("\n%s\n", ui.Header("Dependencies"))
		for _, d := range t.Dependencies {
			fmt.Printf("  %s %s\n", ui.Muted("→"), dependencyLabel(d.TargetID))
			if d.Why != "" {
				fmt.Printf("    %s\n", ui.Muted(d.Why))
			}
		}
	}

	if len(t.Progress) > 0 {
		fmt.Printf("\n%s\n", ui.Header("Progress"))
		for _, p := range t.Progress {
			fmt.Printf("  %s %s\n", ui.Muted(p.Timestamp.Format("2006-01-02 15:04")), p.Note)
		}
	}

	if d := t.CurrentDetail(); d != nil {
		fmt.Printf("\n%s %s\n", ui.Header("Detail"), ui.Muted(d.Timestamp.Format("2006-01-02 15:04")))
		fmt.Print(ui.RenderMarkdown(d.Content))
	}

	fmt.Printf("\n%s\n", ui.Muted(fmt.Sprintf("created %s, updated %s",
		t.CreatedAt.Format("2006-01-02"), t.UpdatedAt.Format("2006-01-02"))))
}

func showContainer(c *types.Container) {
	fmt.Printf("%s %s %s\n", ui.Header(c.Name), ui.Muted("("+c.ID+")"), ui.Muted("container"))
	if c.Description != "" {
		fmt.Printf("\n%s\n", c.Description)
	}
	showCommonFields(c.ParentID, c.GroupID, c.Tags)
	if len(c.Details) > 0 {
		d := c.Details[len(c.Details)-1]
		fmt.Printf("\n%s %s\n", ui.Header("Detail"), ui.Muted(d.Timestamp.Format("2006-01-02 15:04")))
		fmt.Print(ui.RenderMarkdown(d.Content))
	}
	fmt.Printf("\n%s\n", ui.Muted(fmt.Sprintf("created %s, updated %s",
		c.CreatedAt.Format("2006-01-02"), c.UpdatedAt.Format("2006-01-02"))))
}

func showCommonFields(parentID, groupID string, tags []string) {
	if parentID != "" {
		fmt.Printf("%s %s\n", ui.Muted("parent:"), dependencyLabel(parentID))
	}
	if groupID != "" {
		label := groupID
		if g, err := db.GroupByID(rootCtx, groupID); err == nil {
			label = fmt.Sprintf("%s (%s)", g.Name, g.ID)
		}
		fmt.Printf("%s %s\n", ui.Muted("group:"), label)
	}
	if len(tags) > 0 {
		fmt.Printf("%s #%s\n", ui.Muted("tags:"), strings.Join(tags, " #"))
	}
}

// dependencyLabel renders an entity reference as "name (id)", falling
// back to the bare id when the reference dangles.
func dependencyLabel(id string) string {
	if e, err := db.EntityByID(rootCtx, id); err == nil {
		return fmt.Sprintf("%s (%s)", e.Name(), e.ID())
	}
	return id
}

func init() {
	rootCmd.AddCommand(showCmd)
}
