package hierarchy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

func newTestOps(t *testing.T) (*Ops, *store.FileStore) {
	t.Helper()
	s := store.Open(t.TempDir(), nil)
	return New(s, nil), s
}

func mustThread(t *testing.T, s *store.FileStore, th *types.Thread) *types.Thread {
	t.Helper()
	if err := s.CreateThread(context.Background(), th); err != nil {
		t.Fatalf("create thread: %v", err)
	}
	return th
}

func mustContainer(t *testing.T, s *store.FileStore, c *types.Container) *types.Container {
	t.Helper()
	if err := s.CreateContainer(context.Background(), c); err != nil {
		t.Fatalf("create container: %v", err)
	}
	return c
}

// seedChain builds root <- mid <- leaf and returns the three ids.
func seedChain(t *testing.T, s *store.FileStore) (string, string, string) {
	t.Helper()
	root := mustThread(t, s, &types.Thread{Name: "Root"})
	mid := mustThread(t, s, &types.Thread{Name: "Mid", ParentID: root.ID})
	leaf := mustThread(t, s, &types.Thread{Name: "Leaf", ParentID: mid.ID})
	return root.ID, mid.ID, leaf.ID
}

func TestReparentRefusesCycles(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	rootID, midID, leafID := seedChain(t, s)

	tests := []struct {
		name      string
		entity    string
		newParent string
	}{
		{"under own child", rootID, midID},
		{"under own grandchild", rootID, leafID},
		{"under itself", midID, midID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ops.Reparent(ctx, tt.entity, tt.newParent, false)
			var cerr *CycleError
			if !errors.As(err, &cerr) {
				t.Fatalf("Reparent(%s -> %s) err = %v, want CycleError", tt.entity, tt.newParent, err)
			}
			if cerr.EntityID != tt.entity {
				t.Errorf("CycleError.EntityID = %s, want %s", cerr.EntityID, tt.entity)
			}
		})
	}
}

func TestReparentMovesAndDetaches(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	_, midID, leafID := seedChain(t, s)
	other := mustContainer(t, s, &types.Container{Name: "Box", GroupID: "gr-team"})

	// Sideways move with group inheritance.
	e, err := ops.Reparent(ctx, leafID, other.ID, true)
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if e.ParentID() != other.ID {
		t.Errorf("parent = %s, want %s", e.ParentID(), other.ID)
	}
	if e.GroupID() != "gr-team" {
		t.Errorf("group = %s, want gr-team", e.GroupID())
	}

	// Empty parent detaches to the root.
	e, err = ops.Reparent(ctx, midID, "", false)
	if err != nil {
		t.Fatalf("Reparent to root: %v", err)
	}
	if e.ParentID() != "" {
		t.Errorf("parent = %s, want empty", e.ParentID())
	}
}

func TestDescendantsDepthFirst(t *testing.T) {
	ops, s := newTestOps(t)
	rootID, midID, leafID := seedChain(t, s)

	entries, err := ops.Descendants(context.Background(), rootID)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Entity.ID() != midID || entries[0].Depth != 1 {
		t.Errorf("entries[0] = %s depth %d, want %s depth 1", entries[0].Entity.ID(), entries[0].Depth, midID)
	}
	if entries[1].Entity.ID() != leafID || entries[1].Depth != 2 {
		t.Errorf("entries[1] = %s depth %d, want %s depth 2", entries[1].Entity.ID(), entries[1].Depth, leafID)
	}
}

func TestArchiveRefusesWithoutCascade(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	rootID, _, _ := seedChain(t, s)

	res, err := ops.Archive(ctx, rootID, false)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if res.Applied {
		t.Error("Applied = true, want refusal")
	}
	if len(res.Entries) != 2 {
		t.Errorf("len(Entries) = %d, want 2", len(res.Entries))
	}

	// Nothing moved.
	root, err := s.ThreadByID(ctx, rootID)
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if root.Status != types.StatusActive {
		t.Errorf("root status = %s, want active after refusal", root.Status)
	}
}

func TestArchiveAndRestoreCascade(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	rootID, midID, leafID := seedChain(t, s)

	res, err := ops.Archive(ctx, rootID, true)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if !res.Applied {
		t.Fatal("Applied = false, want cascade to apply")
	}
	if len(res.Changed) != 3 {
		t.Fatalf("len(Changed) = %d, want 3", len(res.Changed))
	}
	for _, id := range []string{rootID, midID, leafID} {
		th, err := s.ThreadByID(ctx, id)
		if err != nil {
			t.Fatalf("ThreadByID(%s): %v", id, err)
		}
		if th.Status != types.StatusArchived || th.Temperature != types.TempFrozen {
			t.Errorf("%s = %s/%s, want archived/frozen", id, th.Status, th.Temperature)
		}
	}

	if _, err := ops.Restore(ctx, rootID, true); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	leaf, err := s.ThreadByID(ctx, leafID)
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if leaf.Status != types.StatusActive || leaf.Temperature != types.TempTepid {
		t.Errorf("leaf = %s/%s, want active/tepid", leaf.Status, leaf.Temperature)
	}
}

func TestArchiveLeafAppliesWithoutCascade(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	_, _, leafID := seedChain(t, s)

	res, err := ops.Archive(ctx, leafID, false)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if !res.Applied {
		t.Error("Applied = false, want leaf archive to apply")
	}
	if len(res.Changed) != 1 || res.Changed[0] != leafID {
		t.Errorf("Changed = %v, want [%s]", res.Changed, leafID)
	}
}

func TestCloneCopiesScalarsNotHistory(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	src := mustThread(t, s, &types.Thread{
		Name:        "Garden",
		Description: "Backyard work",
		Temperature: types.TempHot,
		Size:        types.SizeLarge,
		Importance:  4,
		Tags:        []string{"outdoor"},
	})
	if _, err := s.AppendProgress(ctx, src.ID, &types.ProgressEntry{Timestamp: time.Now().UTC(), Note: "dug beds"}); err != nil {
		t.Fatalf("AppendProgress: %v", err)
	}

	created, err := ops.Clone(ctx, src.ID, CloneOptions{})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d entities, want 1", len(created))
	}
	dup := created[0].Thread
	if dup.ID == src.ID {
		t.Error("clone shares the source id")
	}
	if dup.Name != "Garden (copy)" {
		t.Errorf("name = %q, want %q", dup.Name, "Garden (copy)")
	}
	if dup.Importance != 4 || dup.Temperature != types.TempHot || dup.Size != types.SizeLarge {
		t.Errorf("scalars did not carry over: %+v", dup)
	}
	if len(dup.Progress) != 0 || len(dup.Details) != 0 || len(dup.Dependencies) != 0 {
		t.Error("clone carried history, want empty logs and dependencies")
	}
}

func TestCloneWithChildrenRewiresSubtree(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	rootID, _, _ := seedChain(t, s)

	newGroup := "gr-other"
	created, err := ops.Clone(ctx, rootID, CloneOptions{
		NewName:      "Root again",
		NewGroupID:   &newGroup,
		WithChildren: true,
	})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d entities, want 3", len(created))
	}

	cloneRoot := created[0]
	if cloneRoot.Name() != "Root again" {
		t.Errorf("root name = %q, want %q", cloneRoot.Name(), "Root again")
	}
	for _, e := range created {
		if e.GroupID() != newGroup {
			t.Errorf("%s group = %q, want %q", e.ID(), e.GroupID(), newGroup)
		}
	}
	// Children hang off the clone, not the original.
	entries, err := ops.Descendants(ctx, cloneRoot.ID())
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("clone has %d descendants, want 2", len(entries))
	}
	for _, e := range created {
		for _, orig := range []string{rootID} {
			if e.ID() == orig {
				t.Errorf("clone reused original id %s", orig)
			}
		}
	}
}

func TestCloneUnderSourceTerminates(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	src := mustThread(t, s, &types.Thread{Name: "Nest"})

	parent := src.ID
	created, err := ops.Clone(ctx, src.ID, CloneOptions{
		NewParentID:  &parent,
		WithChildren: true,
	})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	// The clone becomes a child of the source; it must not be picked up
	// as a child to clone again.
	if len(created) != 1 {
		t.Fatalf("created %d entities, want 1", len(created))
	}
	if created[0].ParentID() != src.ID {
		t.Errorf("clone parent = %s, want %s", created[0].ParentID(), src.ID)
	}
	all, err := s.AllThreads(ctx)
	if err != nil {
		t.Fatalf("AllThreads: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("store holds %d threads, want 2", len(all))
	}
}

func TestCloneSubtreeUnderOwnDescendant(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	rootID, midID, _ := seedChain(t, s)

	parent := midID
	created, err := ops.Clone(ctx, rootID, CloneOptions{
		NewParentID:  &parent,
		WithChildren: true,
	})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	// Root, mid, and leaf are copied once each; the copies hanging
	// under mid stay out of the child scan.
	if len(created) != 3 {
		t.Fatalf("created %d entities, want 3", len(created))
	}
	if created[0].ParentID() != midID {
		t.Errorf("clone root parent = %s, want %s", created[0].ParentID(), midID)
	}
	all, err := s.AllThreads(ctx)
	if err != nil {
		t.Fatalf("AllThreads: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("store holds %d threads, want 6", len(all))
	}
}

func TestMergeFoldsSourceIntoTarget(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()

	third := mustThread(t, s, &types.Thread{Name: "Third party"})
	source := mustThread(t, s, &types.Thread{Name: "Old plan", Tags: []string{"alpha", "shared"}})
	target := mustThread(t, s, &types.Thread{Name: "New plan", Tags: []string{"shared", "beta"}})
	child := mustThread(t, s, &types.Thread{Name: "Step", ParentID: source.ID})

	now := time.Now().UTC()
	if _, err := s.AppendProgress(ctx, source.ID, &types.ProgressEntry{Timestamp: now.Add(-time.Hour), Note: "early"}); err != nil {
		t.Fatalf("AppendProgress: %v", err)
	}
	if _, err := s.AppendProgress(ctx, target.ID, &types.ProgressEntry{Timestamp: now, Note: "late"}); err != nil {
		t.Fatalf("AppendProgress: %v", err)
	}

	// One dependency each on the third thread so the key collides, plus a
	// source dependency on the target itself which must be dropped.
	hard := types.Dependency{TargetID: third.ID, Why: "from source"}
	soft := types.Dependency{TargetID: third.ID, Why: "from target"}
	inward := types.Dependency{TargetID: target.ID, Why: "blocked on it"}
	if _, err := s.UpdateThread(ctx, source.ID, types.ThreadPatch{
		Dependencies: &[]*types.Dependency{&hard, &inward},
	}); err != nil {
		t.Fatalf("UpdateThread: %v", err)
	}
	if _, err := s.UpdateThread(ctx, target.ID, types.ThreadPatch{
		Dependencies: &[]*types.Dependency{&soft},
	}); err != nil {
		t.Fatalf("UpdateThread: %v", err)
	}

	res, err := ops.Merge(ctx, source.ID, target.ID, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !res.Applied {
		t.Fatal("Applied = false")
	}
	if len(res.ReparentedChildren) != 1 || res.ReparentedChildren[0] != child.ID {
		t.Errorf("ReparentedChildren = %v, want [%s]", res.ReparentedChildren, child.ID)
	}
	if res.ProgressMerged != 2 {
		t.Errorf("ProgressMerged = %d, want 2", res.ProgressMerged)
	}
	wantTags := []string{"alpha", "beta", "shared"}
	if len(res.Tags) != len(wantTags) {
		t.Fatalf("Tags = %v, want %v", res.Tags, wantTags)
	}
	for i, tag := range wantTags {
		if res.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, res.Tags[i], tag)
		}
	}
	if len(res.Dependencies) != 1 || res.Dependencies[0].Why != "from target" {
		t.Errorf("Dependencies = %+v, want the target's entry to win", res.Dependencies)
	}
	if len(res.DroppedDependencies) != 1 || res.DroppedDependencies[0].TargetID != target.ID {
		t.Errorf("DroppedDependencies = %+v, want the inward entry dropped", res.DroppedDependencies)
	}

	// Persisted state matches the report.
	merged, err := s.ThreadByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if len(merged.Progress) != 2 || merged.Progress[0].Note != "early" {
		t.Errorf("target progress = %+v, want early then late", merged.Progress)
	}
	archived, err := s.ThreadByID(ctx, source.ID)
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if archived.Status != types.StatusArchived {
		t.Errorf("source status = %s, want archived", archived.Status)
	}
	moved, err := s.ThreadByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if moved.ParentID != target.ID {
		t.Errorf("child parent = %s, want %s", moved.ParentID, target.ID)
	}
}

func TestMergeDryRunMutatesNothing(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	source := mustThread(t, s, &types.Thread{Name: "Src", Tags: []string{"keep"}})
	target := mustThread(t, s, &types.Thread{Name: "Tgt"})
	child := mustThread(t, s, &types.Thread{Name: "Kid", ParentID: source.ID})

	res, err := ops.Merge(ctx, source.ID, target.ID, MergeOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if res.Applied {
		t.Error("Applied = true under dry run")
	}
	if len(res.ReparentedChildren) != 1 {
		t.Errorf("ReparentedChildren = %v, want the preview to list the child", res.ReparentedChildren)
	}

	src, _ := s.ThreadByID(ctx, source.ID)
	if src.Status != types.StatusActive {
		t.Errorf("source status = %s, dry run must not archive", src.Status)
	}
	kid, _ := s.ThreadByID(ctx, child.ID)
	if kid.ParentID != source.ID {
		t.Errorf("child parent = %s, dry run must not reparent", kid.ParentID)
	}
	tgt, _ := s.ThreadByID(ctx, target.ID)
	if len(tgt.Tags) != 0 {
		t.Errorf("target tags = %v, dry run must not write tags", tgt.Tags)
	}
}

func TestMergeKeepSourceLeavesItActive(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	source := mustThread(t, s, &types.Thread{Name: "Src"})
	target := mustThread(t, s, &types.Thread{Name: "Tgt"})

	res, err := ops.Merge(ctx, source.ID, target.ID, MergeOptions{KeepSource: true})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if res.SourceArchived {
		t.Error("SourceArchived = true with KeepSource")
	}
	src, _ := s.ThreadByID(ctx, source.ID)
	if src.Status != types.StatusActive {
		t.Errorf("source status = %s, want active", src.Status)
	}
}

func TestMergeRefusesSelf(t *testing.T) {
	ops, s := newTestOps(t)
	th := mustThread(t, s, &types.Thread{Name: "Solo"})
	if _, err := ops.Merge(context.Background(), th.ID, th.ID, MergeOptions{}); err == nil {
		t.Fatal("self-merge succeeded, want error")
	}
}

func TestMergeTargetChildOfSourceStaysPut(t *testing.T) {
	ops, s := newTestOps(t)
	ctx := context.Background()
	source := mustThread(t, s, &types.Thread{Name: "Parent plan"})
	target := mustThread(t, s, &types.Thread{Name: "Child plan", ParentID: source.ID})

	res, err := ops.Merge(ctx, source.ID, target.ID, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, id := range res.ReparentedChildren {
		if id == target.ID {
			t.Error("target listed for reparenting onto itself")
		}
	}
	tgt, _ := s.ThreadByID(ctx, target.ID)
	if tgt.ParentID == target.ID {
		t.Error("target became its own parent")
	}
}
