package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/strandtools/strand/internal/backup"
	"github.com/strandtools/strand/internal/config"
	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/store/sqlite"
	"github.com/strandtools/strand/internal/ui"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	dirFlag     string
	jsonOutput  bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool

	// Populated by PersistentPreRun for every command that needs a store
	strandDir string
	cfg       *config.LocalConfig
	logger    *zap.Logger
	db        store.Store
	fileStore *store.FileStore // nil when the sqlite backend is active

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

// Command group IDs for organized help output
const (
	groupEntities  = "entities"
	groupHierarchy = "hierarchy"
	groupData      = "data"
)

// noStoreCommands run without a strand directory.
var noStoreCommands = map[string]bool{
	"init":       true,
	"help":       true,
	"version":    true,
	"completion": true,
}

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return false
		}
	}
	return true
}

var rootCmd = &cobra.Command{
	Use:   "strand",
	Short: "strand - hierarchical activity tracker",
	Long: `Track threads of activity as a hierarchy of threads, containers, and groups.
Everything lives in one JSON document under .strand/ with a single backup generation.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("strand version %s\n", Version)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		logger = zap.NewNop()
		if verboseFlag && !quietFlag {
			if l, err := zap.NewDevelopment(); err == nil {
				logger = l
			}
		}
		if noColorFlag {
			ui.SetColorDisabled(true)
		}

		if !needsStore(cmd) {
			return
		}

		dir := dirFlag
		if dir == "" {
			dir = viper.GetString("dir")
		}
		if dir == "" {
			found, err := config.FindStrandDir()
			if err != nil {
				FatalErrorWithHint("no .strand directory found", "Run 'strand init' to start tracking here")
			}
			dir = found
		}
		strandDir = dir
		cfg = config.LoadWithEnv(strandDir)
		if cfg.NoColor {
			ui.SetColorDisabled(true)
		}

		switch cfg.Backend {
		case "", config.BackendFile:
			fs := store.Open(strandDir, logger)
			fileStore = fs
			db = fs
		case config.BackendSQLite:
			s, err := sqlite.Open(sqliteDBPath(strandDir), logger)
			if err != nil {
				FatalError("open sqlite backend: %v", err)
			}
			db = s
		default:
			FatalErrorWithHint(fmt.Sprintf("unknown backend %q in config.yaml", cfg.Backend), "Valid backends: file, sqlite")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			_ = db.Close()
		}
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func sqliteDBPath(dir string) string {
	return dir + string(os.PathSeparator) + sqlite.DataFileName
}

// backupManager returns the backup manager for the file backend, or
// exits: the sqlite backend owns its own durability.
func backupManager() *backup.Manager {
	if fileStore == nil {
		FatalErrorWithHint("backup commands require the file backend", "The sqlite backend is durable on its own; remove 'backend: sqlite' from config.yaml to use document backups")
	}
	return backup.New(fileStore.Codec(), logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Strand directory (default: walk up for .strand, or $STRAND_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.SetEnvPrefix("STRAND")
	viper.AutomaticEnv()

	rootCmd.AddGroup(
		&cobra.Group{ID: groupEntities, Title: "Working With Entities:"},
		&cobra.Group{ID: groupHierarchy, Title: "Hierarchy Operations:"},
		&cobra.Group{ID: groupData, Title: "Data & Maintenance:"},
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
