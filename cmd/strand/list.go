package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	GroupID: groupEntities,
	Short:   "List threads",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter := buildThreadFilter(cmd)
		all, _ := cmd.Flags().GetBool("all")
		tree, _ := cmd.Flags().GetBool("tree")

		threads, err := db.FindThreads(rootCtx, filter)
		if err != nil {
			FatalError("%v", err)
		}
		// Archived threads are soft-removed: hidden unless asked for by
		// --all or an explicit status filter.
		if !all && filter.Status == nil {
			kept := threads[:0]
			for _, t := range threads {
				if t.Status != types.StatusArchived {
					kept = append(kept, t)
				}
			}
			threads = kept
		}

		if jsonOutput {
			outputJSON(threads)
			return
		}
		if len(threads) == 0 {
			fmt.Println("No threads found.")
			return
		}
		if tree {
			printThreadTree(threads)
			return
		}

		// Hotter and more important first; ties keep document order.
		sort.SliceStable(threads, func(i, j int) bool {
			ri, rj := threads[i].Temperature.Rank(), threads[j].Temperature.Rank()
			if ri != rj {
				return ri > rj
			}
			return threads[i].Importance > threads[j].Importance
		})
		for _, t := range threads {
			printThreadLine(t, "")
		}
	},
}

func buildThreadFilter(cmd *cobra.Command) types.ThreadFilter {
	var filter types.ThreadFilter
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s := types.Status(v)
		if !s.IsValid() {
			FatalError("invalid status %q", v)
		}
		filter.Status = &s
	}
	if v, _ := cmd.Flags().GetString("temp"); v != "" {
		t := types.Temperature(v)
		if !t.IsValid() {
			FatalError("invalid temperature %q", v)
		}
		filter.Temperature = &t
	}
	if v, _ := cmd.Flags().GetString("size"); v != "" {
		s := types.Size(v)
		if !s.IsValid() {
			FatalError("invalid size %q", v)
		}
		filter.Size = &s
	}
	if v, _ := cmd.Flags().GetInt("importance"); v != 0 {
		filter.Importance = &v
	}
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
	return filter
}

func printThreadLine(t *types.Thread, indent string) {
	line := fmt.Sprintf("%s%s  %s %s %s  %s",
		indent, ui.Muted(t.ID), ui.StatusBadge(t.Status),
		ui.TemperatureBadge(t.Temperature), ui.ImportanceBadge(t.Importance), t.Name)
	if len(t.Tags) > 0 {
		line += "  " + ui.Muted("#"+strings.Join(t.Tags, " #"))
	}
	fmt.Println(line)
}

// printThreadTree renders the filtered threads as a forest. A thread
// whose parent was filtered out (or is a container) prints as a root.
func printThreadTree(threads []*types.Thread) {
	byID := make(map[string]*types.Thread, len(threads))
	children := make(map[string][]*types.Thread)
	for _, t := range threads {
		byID[t.ID] = t
	}
	var roots []*types.Thread
	for _, t := range threads {
		if t.ParentID != "" && byID[t.ParentID] != nil {
			children[t.ParentID] = append(children[t.ParentID], t)
		} else {
			roots = append(roots, t)
		}
	}
	var walk func(t *types.Thread, prefix string, last bool, top bool)
	walk = func(t *types.Thread, prefix string, last bool, top bool) {
		connector := ""
		childPrefix := prefix
		if !top {
			connector = ui.TreeBranch
			childPrefix = prefix + "│" + ui.TreeIndent[1:]
			if last {
				connector = ui.TreeLast
				childPrefix = prefix + ui.TreeIndent
			}
		}
		printThreadLine(t, prefix+connector)
		kids := children[t.ID]
		for i, k := range kids {
			walk(k, childPrefix, i == len(kids)-1, false)
		}
	}
	for _, r := range roots {
		walk(r, "", true, true)
	}
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status (active, paused, stopped, completed, archived)")
	listCmd.Flags().String("temp", "", "Filter by temperature (hot, warm, tepid, cold, freezing, frozen)")
	listCmd.Flags().String("size", "", "Filter by size (tiny, small, medium, large, huge)")
	listCmd.Flags().IntP("importance", "i", 0, "Filter by importance (1-5)")
	listCmd.Flags().StringP("parent", "p", "", "Filter by parent entity")
	listCmd.Flags().StringP("group", "g", "", "Filter by group")
	listCmd.Flags().StringSliceP("tag", "t", nil, "Filter by tags (any-of)")
	listCmd.Flags().String("search", "", "Free-text search over name and description")
	listCmd.Flags().Bool("all", false, "Include archived threads")
	listCmd.Flags().Bool("tree", false, "Render as a parent/child tree")
	rootCmd.AddCommand(listCmd)
}
