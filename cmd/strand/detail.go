package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/types"
	"github.com/strandtools/strand/internal/ui"
)

var detailCmd = &cobra.Command{
	Use:     "detail [entity] [content]",
	GroupID: groupEntities,
	Short:   "Append a detail entry (markdown) to a thread or container",
	Long: `Append a detail entry. Details are append-only snapshots; 'strand show'
renders the most recent one as markdown. Pass '-' as content to read
from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		e := mustEntity(args[0])

		if len(args) == 1 {
			// No content: print the current detail instead.
			var d *types.DetailEntry
			switch e.Kind {
			case types.KindThread:
				d = e.Thread.CurrentDetail()
			case types.KindContainer:
				if n := len(e.Container.Details); n > 0 {
					d = e.Container.Details[n-1]
				}
			}
			if d == nil {
				fmt.Printf("No details on %s.\n", e.Name())
				return
			}
			if jsonOutput {
				outputJSON(d)
				return
			}
			fmt.Print(ui.RenderMarkdown(d.Content))
			return
		}

		content := args[1]
		if content == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				FatalError("read stdin: %v", err)
			}
			content = string(data)
		}

		updated, err := db.AppendDetail(rootCtx, e.ID(), &types.DetailEntry{Content: content})
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(updated)
			return
		}
		if !quietFlag {
			fmt.Printf("Added detail to %s\n", updated.Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(detailCmd)
}
