package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/ui"
)

var backupCmd = &cobra.Command{
	Use:     "backup",
	GroupID: groupData,
	Short:   "Inspect or restore the single backup generation",
	Long: `Every save copies the previous document to a single backup slot
before writing. 'strand backup' shows what that slot holds; 'strand
backup restore' swaps it with the live document. Restoring twice puts
everything back the way it was.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, err := backupManager().Info()
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(info)
			return
		}
		if !info.Exists {
			fmt.Println("No backup exists yet. The first save after a change creates one.")
			return
		}
		fmt.Printf("%s\n", ui.Header("Backup"))
		fmt.Printf("  %s %s\n", ui.Muted("file:"), info.Path)
		fmt.Printf("  %s %s\n", ui.Muted("from:"), info.ModTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("  %s %d threads, %d containers, %d groups\n",
			ui.Muted("holds:"), info.Threads, info.Containers, info.Groups)
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Swap the backup with the live document",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		restored, err := backupManager().Restore()
		if err != nil {
			FatalError("%v", err)
		}
		if !restored {
			FatalErrorWithHint("nothing to restore", "No usable backup exists; the live document is untouched")
		}
		if jsonOutput {
			outputJSON(map[string]bool{"restored": true})
			return
		}
		if !quietFlag {
			fmt.Println("Restored the backup. Run 'strand backup restore' again to undo.")
		}
	},
}

func init() {
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}
