// Package codec owns serialization of the strand dataset: one JSON document
// holding every thread, container, and group, plus a single sibling backup
// of the immediately prior snapshot.
//
// Load never fails: a corrupt primary falls back to the backup snapshot,
// and if that is also unusable the codec resets to a valid empty dataset
// and persists it. Save is the opposite: any I/O error is surfaced so no
// command can proceed as if a failed write succeeded.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/strandtools/strand/internal/types"
)

// Default document file names inside the data directory.
const (
	DataFileName   = "strand.json"
	BackupFileName = "strand.backup.json"
)

// Codec reads and writes the dataset document.
type Codec struct {
	dataPath   string
	backupPath string
	log        *zap.Logger
}

// New creates a codec for the document and backup files in dir.
// A nil logger disables logging.
func New(dir string, log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{
		dataPath:   filepath.Join(dir, DataFileName),
		backupPath: filepath.Join(dir, BackupFileName),
		log:        log,
	}
}

// DataPath returns the path of the primary document.
func (c *Codec) DataPath() string { return c.dataPath }

// BackupPath returns the path of the backup snapshot.
func (c *Codec) BackupPath() string { return c.backupPath }

// Load reads and decodes the dataset. It never returns an error: the
// recovery chain is primary, then backup (repairing the primary to match),
// then a fresh empty dataset persisted in place of the corrupt one.
func (c *Codec) Load() *types.Dataset {
	data, err := os.ReadFile(c.dataPath)
	if err == nil {
		if ds, derr := Decode(data); derr == nil {
			return ds
		} else {
			c.log.Warn("primary document is corrupt",
				zap.String("path", c.dataPath),
				zap.Error(derr))
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		c.log.Warn("primary document unreadable",
			zap.String("path", c.dataPath),
			zap.Error(err))
	} else {
		// First run: no document yet. Persist an empty dataset so later
		// saves have current bytes to back up.
		ds := types.NewDataset()
		if serr := c.Save(ds); serr != nil {
			c.log.Warn("could not persist initial dataset", zap.Error(serr))
		}
		return ds
	}

	// Primary existed but was unusable: try the backup snapshot.
	if backupBytes, berr := os.ReadFile(c.backupPath); berr == nil {
		if ds, derr := Decode(backupBytes); derr == nil {
			c.log.Warn("recovered dataset from backup snapshot",
				zap.String("backup", c.backupPath))
			// Repair the primary to match what we just recovered.
			if werr := c.writeFile(c.dataPath, backupBytes); werr != nil {
				c.log.Warn("could not repair primary document", zap.Error(werr))
			}
			return ds
		}
		c.log.Warn("backup snapshot is also corrupt", zap.String("backup", c.backupPath))
	}

	// Both copies unusable: reset to a valid empty dataset.
	c.log.Warn("resetting to empty dataset", zap.String("path", c.dataPath))
	ds := types.NewDataset()
	if serr := c.Save(ds); serr != nil {
		c.log.Warn("could not persist empty dataset", zap.Error(serr))
	}
	return ds
}

// Save encodes and writes the dataset. The current primary bytes are copied
// to the backup file before the primary is overwritten, so an interruption
// at any point leaves at least one complete valid snapshot on disk.
func (c *Codec) Save(ds *types.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(c.dataPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	ds.SchemaVersion = types.CurrentSchemaVersion

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	data = append(data, '\n')

	// Backup before overwrite. Only snapshot bytes that exist; first save
	// has nothing to preserve.
	if current, rerr := os.ReadFile(c.dataPath); rerr == nil {
		if werr := c.writeFile(c.backupPath, current); werr != nil {
			return fmt.Errorf("write backup snapshot: %w", werr)
		}
	} else if !errors.Is(rerr, os.ErrNotExist) {
		return fmt.Errorf("read current document for backup: %w", rerr)
	}

	if err := c.writeFile(c.dataPath, data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// writeFile writes bytes and syncs before closing.
func (c *Codec) writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode parses dataset bytes and applies the forward migration: nil
// collections become empty, a missing schema version is stamped current,
// and every thread gets its enum defaults filled in.
func Decode(data []byte) (*types.Dataset, error) {
	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	migrate(&ds)
	return &ds, nil
}

// DecodeCounts reads only the collection lengths from dataset bytes without
// materializing the records. Used for backup inspection.
func DecodeCounts(r io.Reader) (threads, containers, groups int, err error) {
	var raw struct {
		Threads    []json.RawMessage `json:"threads"`
		Containers []json.RawMessage `json:"containers"`
		Groups     []json.RawMessage `json:"groups"`
	}
	if err = json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, 0, 0, err
	}
	return len(raw.Threads), len(raw.Containers), len(raw.Groups), nil
}

// migrate applies the single additive migration: version "1" documents
// predate containers, so a missing array defaults to empty. No destructive
// migration exists.
func migrate(ds *types.Dataset) {
	if ds.Threads == nil {
		ds.Threads = []*types.Thread{}
	}
	if ds.Containers == nil {
		ds.Containers = []*types.Container{}
	}
	if ds.Groups == nil {
		ds.Groups = []*types.Group{}
	}
	if ds.SchemaVersion == "" || ds.SchemaVersion == "1" {
		ds.SchemaVersion = types.CurrentSchemaVersion
	}
	for _, t := range ds.Threads {
		t.SetDefaults()
	}
}
