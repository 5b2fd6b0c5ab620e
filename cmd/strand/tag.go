package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
)

var tagCmd = &cobra.Command{
	Use:     "tag [entity] [tag...]",
	GroupID: groupEntities,
	Short:   "Add or remove tags on a thread or container",
	Long: `Add the given tags to an entity, or remove them with --remove. Tags
are normalized: lowercased, trimmed, deduplicated, sorted.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remove, _ := cmd.Flags().GetBool("remove")
		e := mustEntity(args[0])

		tags := e.Tags()
		if remove {
			tags = removeTags(tags, args[1:])
		} else {
			tags = append(append([]string{}, tags...), args[1:]...)
		}
		tags = types.NormalizeTags(tags)

		var err error
		switch e.Kind {
		case types.KindThread:
			_, err = db.UpdateThread(rootCtx, e.ID(), types.ThreadPatch{Tags: &tags})
		case types.KindContainer:
			_, err = db.UpdateContainer(rootCtx, e.ID(), types.ContainerPatch{Tags: &tags})
		}
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]any{"id": e.ID(), "tags": tags})
			return
		}
		if !quietFlag {
			if len(tags) == 0 {
				fmt.Printf("%s now has no tags\n", e.Name())
			} else {
				fmt.Printf("%s: #%s\n", e.Name(), strings.Join(tags, " #"))
			}
		}
	},
}

// removeTags returns tags without the given ones. tags aliases the stored
// slice until the update lands, so it is filtered into a copy, never
// written through.
func removeTags(tags, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, t := range types.NormalizeTags(remove) {
		drop[t] = true
	}
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

func init() {
	tagCmd.Flags().Bool("remove", false, "Remove the tags instead of adding them")
	rootCmd.AddCommand(tagCmd)
}
