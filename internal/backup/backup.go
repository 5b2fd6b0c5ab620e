// Package backup manages the single retained prior snapshot of the strand
// document and the swap-based restore between it and the live file.
package backup

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/strandtools/strand/internal/codec"
	"github.com/strandtools/strand/internal/types"
)

// Info describes the backup snapshot without materializing the dataset.
type Info struct {
	Exists     bool      `json:"exists"`
	Path       string    `json:"path"`
	ModTime    time.Time `json:"mod_time,omitzero"`
	Threads    int       `json:"threads"`
	Containers int       `json:"containers"`
	Groups     int       `json:"groups"`
}

// Manager owns the live document / backup snapshot pair.
type Manager struct {
	c   *codec.Codec
	log *zap.Logger
}

// New creates a manager over the same file pair the codec persists to.
func New(c *codec.Codec, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{c: c, log: log}
}

// DataFilePath returns the live document path.
func (m *Manager) DataFilePath() string { return m.c.DataPath() }

// BackupFilePath returns the backup snapshot path.
func (m *Manager) BackupFilePath() string { return m.c.BackupPath() }

// Info reports backup existence, snapshot time, and entity counts. The
// counts come from a shallow decode; the records themselves are not parsed.
func (m *Manager) Info() (*Info, error) {
	info := &Info{Path: m.c.BackupPath()}

	st, err := os.Stat(m.c.BackupPath())
	if errors.Is(err, os.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}
	info.Exists = true
	info.ModTime = st.ModTime()

	f, err := os.Open(m.c.BackupPath())
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	threads, containers, groups, err := codec.DecodeCounts(f)
	if err != nil {
		// Existence is still worth reporting when the snapshot is unreadable.
		m.log.Warn("backup snapshot not countable", zap.Error(err))
		return info, nil
	}
	info.Threads, info.Containers, info.Groups = threads, containers, groups
	return info, nil
}

// Snapshot parses and returns the backup dataset. Returns os.ErrNotExist
// when no backup has been taken yet.
func (m *Manager) Snapshot() (*types.Dataset, error) {
	data, err := os.ReadFile(m.c.BackupPath())
	if err != nil {
		return nil, err
	}
	ds, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse backup snapshot: %w", err)
	}
	return ds, nil
}

// Restore swaps the live document and backup snapshot bytes. Calling it
// twice returns both files to their original state, which is how an undone
// restore is redone.
//
// Restore fails closed: when the backup is absent or unparsable it returns
// false and mutates nothing. A missing live file is treated as an empty
// dataset so the swap, and therefore the involution, still holds.
func (m *Manager) Restore() (bool, error) {
	backupBytes, err := os.ReadFile(m.c.BackupPath())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}
	if _, err := codec.Decode(backupBytes); err != nil {
		m.log.Warn("refusing to restore unparsable backup", zap.Error(err))
		return false, nil
	}

	liveBytes, err := os.ReadFile(m.c.DataPath())
	if errors.Is(err, os.ErrNotExist) {
		liveBytes = emptyDatasetBytes()
	} else if err != nil {
		return false, fmt.Errorf("read live document: %w", err)
	}

	// Stage both sides in temp files, then rename. Renames are atomic on
	// the same filesystem, so at every instant both generations exist on
	// disk: a crash mid-swap loses nothing and the restore can be rerun.
	liveTmp := m.c.DataPath() + ".tmp"
	backupTmp := m.c.BackupPath() + ".tmp"
	if err := os.WriteFile(liveTmp, backupBytes, 0o644); err != nil {
		return false, fmt.Errorf("stage live document: %w", err)
	}
	if err := os.WriteFile(backupTmp, liveBytes, 0o644); err != nil {
		return false, fmt.Errorf("stage backup: %w", err)
	}
	if err := os.Rename(liveTmp, m.c.DataPath()); err != nil {
		return false, fmt.Errorf("write live document: %w", err)
	}
	if err := os.Rename(backupTmp, m.c.BackupPath()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}

	m.log.Info("restored backup snapshot",
		zap.String("data", m.c.DataPath()),
		zap.String("backup", m.c.BackupPath()))
	return true, nil
}

func emptyDatasetBytes() []byte {
	return []byte(fmt.Sprintf(
		"{\n  \"threads\": [],\n  \"containers\": [],\n  \"groups\": [],\n  \"schemaVersion\": %q\n}\n",
		types.CurrentSchemaVersion))
}
