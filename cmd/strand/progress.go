package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/timeparsing"
	"github.com/strandtools/strand/internal/types"
)

var progressCmd = &cobra.Command{
	Use:     "progress [thread] [note]",
	Aliases: []string{"log"},
	GroupID: groupEntities,
	Short:   "Append a progress note to a thread",
	Long: `Append a timestamped progress note. The log is append-only and stays
sorted by timestamp, so backdated entries (--at) land in the right place.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		t := mustThread(args[0])

		entry := &types.ProgressEntry{Note: args[1]}
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			ts, err := timeparsing.Parse(at, time.Now())
			if err != nil {
				FatalErrorWithHint(fmt.Sprintf("cannot parse time %q", at), "Try -1d, 2025-06-01, or 'yesterday'")
			}
			entry.Timestamp = ts
		}
		if warm, _ := cmd.Flags().GetBool("warm"); warm {
			// Progress usually means momentum; --warm bumps the thread
			// one step hotter as a side effect.
			if next, ok := warmer(t.Temperature); ok {
				if _, err := db.UpdateThread(rootCtx, t.ID, types.ThreadPatch{Temperature: &next}); err != nil {
					FatalError("%v", err)
				}
			}
		}

		updated, err := db.AppendProgress(rootCtx, t.ID, entry)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(updated)
			return
		}
		if !quietFlag {
			fmt.Printf("Logged progress on %s (%d entries)\n", updated.Name, len(updated.Progress))
		}
	},
}

// warmer returns the next hotter temperature, or false at hot.
func warmer(t types.Temperature) (types.Temperature, bool) {
	order := []types.Temperature{
		types.TempFrozen, types.TempFreezing, types.TempCold,
		types.TempTepid, types.TempWarm, types.TempHot,
	}
	for i, cur := range order {
		if cur == t && i < len(order)-1 {
			return order[i+1], true
		}
	}
	return t, false
}

func init() {
	progressCmd.Flags().String("at", "", "Timestamp for the entry (compact duration, date, or natural language)")
	progressCmd.Flags().Bool("warm", false, "Also bump the thread one temperature step hotter")
	rootCmd.AddCommand(progressCmd)
}
