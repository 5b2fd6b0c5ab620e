package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/strandtools/strand/internal/codec"
	"github.com/strandtools/strand/internal/config"
	"github.com/strandtools/strand/internal/store"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: groupData,
	Short:   "Create a .strand directory in the current directory",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			FatalError("%v", err)
		}
		dir := dirFlag
		if dir == "" {
			dir = filepath.Join(cwd, config.DirName)
		}

		if _, err := os.Stat(filepath.Join(dir, codec.DataFileName)); err == nil {
			FatalErrorWithHint(fmt.Sprintf("%s already exists", dir), "Delete it first if you really want to start over")
		}

		author, _ := cmd.Flags().GetString("author")
		backend, _ := cmd.Flags().GetString("backend")
		if backend != config.BackendFile && backend != config.BackendSQLite {
			FatalError("unknown backend %q (valid: file, sqlite)", backend)
		}
		lc := &config.LocalConfig{Author: author, Backend: backend}
		if err := lc.Write(dir); err != nil {
			FatalError("%v", err)
		}

		// Opening the store persists an empty dataset, so a follow-up
		// backup or list finds a well-formed document.
		if backend == config.BackendFile {
			s := store.Open(dir, logger)
			_ = s.Close()
		}

		if jsonOutput {
			outputJSON(map[string]string{"dir": dir, "backend": backend})
			return
		}
		if !quietFlag {
			fmt.Printf("Initialized empty strand project in %s\n", dir)
		}
	},
}

func init() {
	initCmd.Flags().String("author", "", "Author name recorded in config.yaml")
	initCmd.Flags().String("backend", config.BackendFile, "Storage backend: file or sqlite")
	rootCmd.AddCommand(initCmd)
}
