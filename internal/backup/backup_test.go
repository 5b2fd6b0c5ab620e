package backup

import (
	"os"
	"testing"

	"github.com/strandtools/strand/internal/codec"
	"github.com/strandtools/strand/internal/types"
)

func saveGenerations(t *testing.T, c *codec.Codec, names ...string) {
	t.Helper()
	for _, name := range names {
		ds := types.NewDataset()
		ds.Threads = append(ds.Threads, &types.Thread{ID: "th-aaaaa", Name: name})
		if err := c.Save(ds); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
}

func readPair(t *testing.T, m *Manager) (live, backup string) {
	t.Helper()
	liveBytes, err := os.ReadFile(m.DataFilePath())
	if err != nil {
		t.Fatal(err)
	}
	backupBytes, err := os.ReadFile(m.BackupFilePath())
	if err != nil {
		t.Fatal(err)
	}
	return string(liveBytes), string(backupBytes)
}

func TestRestoreIsInvolutive(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)
	saveGenerations(t, c, "First", "Second")

	liveBefore, backupBefore := readPair(t, m)

	restored, err := m.Restore()
	if err != nil || !restored {
		t.Fatalf("Restore() = %v, %v", restored, err)
	}
	liveMid, backupMid := readPair(t, m)
	if liveMid != backupBefore || backupMid != liveBefore {
		t.Fatal("restore did not swap the two files")
	}

	restored, err = m.Restore()
	if err != nil || !restored {
		t.Fatalf("second Restore() = %v, %v", restored, err)
	}
	liveAfter, backupAfter := readPair(t, m)
	if liveAfter != liveBefore || backupAfter != backupBefore {
		t.Fatal("restoring twice did not return to the original state")
	}
}

func TestRestoreConsumesStagingFiles(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)
	saveGenerations(t, c, "First", "Second")

	// Stale staging files from an interrupted swap must not leak into
	// the result or survive a rerun.
	for _, stale := range []string{m.DataFilePath() + ".tmp", m.BackupFilePath() + ".tmp"} {
		if err := os.WriteFile(stale, []byte("{stale"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	liveBefore, backupBefore := readPair(t, m)
	restored, err := m.Restore()
	if err != nil || !restored {
		t.Fatalf("Restore() = %v, %v", restored, err)
	}
	liveAfter, backupAfter := readPair(t, m)
	if liveAfter != backupBefore || backupAfter != liveBefore {
		t.Fatal("restore did not swap the two files")
	}
	for _, stale := range []string{m.DataFilePath() + ".tmp", m.BackupFilePath() + ".tmp"} {
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Errorf("staging file %s left behind", stale)
		}
	}
}

func TestRestoreFailsClosedWithoutBackup(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)
	saveGenerations(t, c, "Only") // one save: no backup slot yet

	restored, err := m.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored {
		t.Error("Restore reported success with no backup present")
	}
}

func TestRestoreRefusesCorruptBackup(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)
	saveGenerations(t, c, "First", "Second")

	if err := os.WriteFile(m.BackupFilePath(), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	liveBefore, err := os.ReadFile(m.DataFilePath())
	if err != nil {
		t.Fatal(err)
	}

	restored, err := m.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored {
		t.Error("Restore applied an unparsable backup")
	}
	liveAfter, err := os.ReadFile(m.DataFilePath())
	if err != nil {
		t.Fatal(err)
	}
	if string(liveAfter) != string(liveBefore) {
		t.Error("refused restore still mutated the live document")
	}
}

func TestInfo(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)

	info, err := m.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Exists {
		t.Error("Info reported a backup before any save")
	}

	// Two saves create a backup slot holding the first generation.
	ds := types.NewDataset()
	ds.Threads = append(ds.Threads, &types.Thread{ID: "th-aaaaa", Name: "A"})
	ds.Groups = append(ds.Groups, &types.Group{ID: "gr-aaaaa", Name: "G"})
	if err := c.Save(ds); err != nil {
		t.Fatal(err)
	}
	ds.Containers = append(ds.Containers, &types.Container{ID: "ct-aaaaa", Name: "C"})
	if err := c.Save(ds); err != nil {
		t.Fatal(err)
	}

	info, err = m.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if !info.Exists || info.ModTime.IsZero() {
		t.Fatalf("Info missing existence/mtime: %+v", info)
	}
	if info.Threads != 1 || info.Containers != 0 || info.Groups != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/0/1 (the prior generation)", info.Threads, info.Containers, info.Groups)
	}
}

func TestSnapshot(t *testing.T) {
	c := codec.New(t.TempDir(), nil)
	m := New(c, nil)
	saveGenerations(t, c, "First", "Second")

	ds, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(ds.Threads) != 1 || ds.Threads[0].Name != "First" {
		t.Errorf("snapshot holds %+v, want the prior generation", ds.Threads)
	}
}
