// Package hierarchy implements the bulk mutations over the polymorphic
// parent/child tree: cascade archive/restore, recursive clone, merge with
// reparenting, and cycle-safe reparenting. All of them are built on the
// repository and enforce the tree invariants (no orphaned children, no
// cycles).
package hierarchy

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

// CycleError reports a reparent that would make an entity its own ancestor.
type CycleError struct {
	EntityID    string
	NewParentID string
	Chain       []string // ancestor chain of the proposed parent, nearest first
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot make %s a child of %s: %s is in the ancestor chain (%s)",
		e.EntityID, e.NewParentID, e.EntityID, strings.Join(e.Chain, " -> "))
}

// Ops performs hierarchy operations against a store.
type Ops struct {
	s   store.Store
	log *zap.Logger
}

// New creates hierarchy operations over s. A nil logger disables logging.
func New(s store.Store, log *zap.Logger) *Ops {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ops{s: s, log: log}
}

// TreeEntry is one node of a flattened subtree preview.
type TreeEntry struct {
	Entity *types.Entity
	Depth  int
}

// Descendants returns the subtree rooted at rootID, excluding the root,
// flattened depth-first with each entry's depth below the root.
func (o *Ops) Descendants(ctx context.Context, rootID string) ([]TreeEntry, error) {
	entities, err := o.s.Entities(ctx)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]*types.Entity)
	for _, e := range entities {
		if pid := e.ParentID(); pid != "" {
			children[pid] = append(children[pid], e)
		}
	}

	var out []TreeEntry
	seen := map[string]bool{rootID: true} // guards against a corrupted cyclic document
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		for _, child := range children[id] {
			if seen[child.ID()] {
				continue
			}
			seen[child.ID()] = true
			out = append(out, TreeEntry{Entity: child, Depth: depth})
			walk(child.ID(), depth+1)
		}
	}
	walk(rootID, 1)
	return out, nil
}

// CascadeResult reports a cascade archive or restore. When Applied is
// false the operation was refused because descendants exist and cascade
// was not requested; Entries then holds the preview of what a cascading
// call would touch.
type CascadeResult struct {
	Applied bool
	Root    *types.Entity
	Entries []TreeEntry // root's descendants, depth-first
	// Threads actually transitioned; containers appear in Entries but
	// carry no status.
	Changed []string
}

// Archive transitions the root thread and, when cascade is set, every
// descendant thread to status archived with temperature frozen. With
// descendants present and cascade unset it refuses and only reports.
func (o *Ops) Archive(ctx context.Context, rootID string, cascade bool) (*CascadeResult, error) {
	return o.cascadeTransition(ctx, rootID, cascade, types.StatusArchived, types.TempFrozen)
}

// Restore is the inverse transition: archived threads in the subtree
// return to active with temperature reset to tepid.
func (o *Ops) Restore(ctx context.Context, rootID string, cascade bool) (*CascadeResult, error) {
	return o.cascadeTransition(ctx, rootID, cascade, types.StatusActive, types.TempTepid)
}

func (o *Ops) cascadeTransition(ctx context.Context, rootID string, cascade bool, status types.Status, temp types.Temperature) (*CascadeResult, error) {
	root, err := o.s.EntityByID(ctx, rootID)
	if err != nil {
		return nil, err
	}
	entries, err := o.Descendants(ctx, rootID)
	if err != nil {
		return nil, err
	}
	res := &CascadeResult{Root: root, Entries: entries}

	if len(entries) > 0 && !cascade {
		// Refuse: report-only, nothing mutates.
		return res, nil
	}

	targets := []*types.Entity{root}
	for _, e := range entries {
		targets = append(targets, e.Entity)
	}
	for _, e := range targets {
		if e.Kind != types.KindThread {
			continue
		}
		if _, err := o.s.UpdateThread(ctx, e.Thread.ID, types.ThreadPatch{
			Status:      &status,
			Temperature: &temp,
		}); err != nil {
			return nil, fmt.Errorf("transition %s: %w", e.Thread.ID, err)
		}
		res.Changed = append(res.Changed, e.Thread.ID)
	}
	res.Applied = true
	o.log.Info("cascade transition applied",
		zap.String("root", rootID),
		zap.String("status", string(status)),
		zap.Int("threads", len(res.Changed)))
	return res, nil
}

// CloneOptions controls a recursive clone.
type CloneOptions struct {
	NewName      string  // name for the clone root; children keep their own names
	NewParentID  *string // nil keeps the source's parent
	NewGroupID   *string // nil keeps the source's group; propagated to children
	WithChildren bool
}

// Clone deep-copies the entity's scalar and tag fields under a fresh id
// and fresh timestamps. Progress, details, and dependencies are not
// copied: clones are templates, not history. With WithChildren the direct
// children are cloned recursively, reparented onto the new clone, and
// given the new group, producing an isomorphic subtree under fresh
// identity. Returns every created entity, clone root first.
func (o *Ops) Clone(ctx context.Context, sourceID string, opts CloneOptions) ([]*types.Entity, error) {
	source, err := o.s.EntityByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	name := opts.NewName
	if name == "" {
		name = source.Name() + " (copy)"
	}
	parentID := source.ParentID()
	if opts.NewParentID != nil {
		parentID = *opts.NewParentID
	}
	groupID := source.GroupID()
	if opts.NewGroupID != nil {
		groupID = *opts.NewGroupID
	}

	// Snapshot the child map before the first create. The clones are
	// appended to the store as we go; scanning it mid-operation would
	// re-discover them as children and recurse without bound when the
	// clone lands inside the source's own subtree.
	entities, err := o.s.Entities(ctx)
	if err != nil {
		return nil, err
	}
	childrenOf := make(map[string][]*types.Entity)
	for _, e := range entities {
		if pid := e.ParentID(); pid != "" {
			childrenOf[pid] = append(childrenOf[pid], e)
		}
	}

	var created []*types.Entity
	var cloneSubtree func(src *types.Entity, name, parentID, groupID string) (string, error)
	cloneSubtree = func(src *types.Entity, name, parentID, groupID string) (string, error) {
		var newID string
		switch src.Kind {
		case types.KindThread:
			dup := &types.Thread{
				Name:        name,
				Description: src.Thread.Description,
				Status:      src.Thread.Status,
				Temperature: src.Thread.Temperature,
				Size:        src.Thread.Size,
				Importance:  src.Thread.Importance,
				ParentID:    parentID,
				GroupID:     groupID,
				Tags:        append([]string(nil), src.Thread.Tags...),
			}
			if err := o.s.CreateThread(ctx, dup); err != nil {
				return "", err
			}
			newID = dup.ID
			created = append(created, types.ThreadEntity(dup))
		case types.KindContainer:
			dup := &types.Container{
				Name:        name,
				Description: src.Container.Description,
				ParentID:    parentID,
				GroupID:     groupID,
				Tags:        append([]string(nil), src.Container.Tags...),
			}
			if err := o.s.CreateContainer(ctx, dup); err != nil {
				return "", err
			}
			newID = dup.ID
			created = append(created, types.ContainerEntity(dup))
		}

		if !opts.WithChildren {
			return newID, nil
		}
		for _, e := range childrenOf[src.ID()] {
			// Children keep their own names and inherit the new group.
			if _, err := cloneSubtree(e, e.Name(), newID, groupID); err != nil {
				return "", err
			}
		}
		return newID, nil
	}

	if _, err := cloneSubtree(source, name, parentID, groupID); err != nil {
		return nil, err
	}
	o.log.Info("cloned subtree",
		zap.String("source", sourceID),
		zap.Int("created", len(created)))
	return created, nil
}

// MergeOptions controls a merge.
type MergeOptions struct {
	KeepSource bool // leave the source thread unarchived
	DryRun     bool // report everything, persist nothing
}

// MergeResult reports what a merge did, or would do under DryRun.
type MergeResult struct {
	SourceID            string              `json:"source_id"`
	TargetID            string              `json:"target_id"`
	ReparentedChildren  []string            `json:"reparented_children,omitempty"`
	ProgressMerged      int                 `json:"progress_merged"`
	DetailsMerged       int                 `json:"details_merged"`
	Tags                []string            `json:"tags,omitempty"`
	Dependencies        []*types.Dependency `json:"dependencies,omitempty"`
	DroppedDependencies []*types.Dependency `json:"dropped_dependencies,omitempty"`
	SourceArchived      bool                `json:"source_archived"`
	Applied             bool                `json:"applied"`
}

// Merge folds the source thread into the target: direct children are
// reparented onto the target, the progress and details logs are unioned in
// ascending timestamp order with full history retained, tags are unioned
// as a set, and dependencies merge keyed by target thread id with the
// target's entry winning a key conflict wholesale. Any dependency entry
// referencing either side of the merge is dropped. The source is archived
// unless KeepSource. Self-merge is refused.
func (o *Ops) Merge(ctx context.Context, sourceID, targetID string, opts MergeOptions) (*MergeResult, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("cannot merge %s into itself", sourceID)
	}
	source, err := o.s.ThreadByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := o.s.ThreadByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{SourceID: source.ID, TargetID: target.ID}

	// Direct children of the source move to the target.
	entities, err := o.s.Entities(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		// The target may itself be a direct child of the source; it stays
		// where it is rather than becoming its own parent.
		if e.ParentID() == source.ID && e.ID() != target.ID {
			res.ReparentedChildren = append(res.ReparentedChildren, e.ID())
		}
	}

	res.ProgressMerged = len(source.Progress) + len(target.Progress)
	res.DetailsMerged = len(source.Details) + len(target.Details)
	res.Tags = types.NormalizeTags(append(append([]string{}, target.Tags...), source.Tags...))
	res.Dependencies, res.DroppedDependencies = mergeDependencies(source, target)
	res.SourceArchived = !opts.KeepSource

	if opts.DryRun {
		return res, nil
	}

	for _, childID := range res.ReparentedChildren {
		if _, err := o.reparentTo(ctx, childID, target.ID, false); err != nil {
			return nil, fmt.Errorf("reparent %s: %w", childID, err)
		}
	}

	if _, err := o.s.AppendProgress(ctx, target.ID, source.Progress...); err != nil {
		return nil, err
	}
	for _, d := range source.Details {
		if _, err := o.s.AppendDetail(ctx, target.ID, d); err != nil {
			return nil, err
		}
	}

	deps := res.Dependencies
	if _, err := o.s.UpdateThread(ctx, target.ID, types.ThreadPatch{
		Tags:         &res.Tags,
		Dependencies: &deps,
	}); err != nil {
		return nil, err
	}

	if !opts.KeepSource {
		archived := types.StatusArchived
		if _, err := o.s.UpdateThread(ctx, source.ID, types.ThreadPatch{Status: &archived}); err != nil {
			return nil, err
		}
	}

	res.Applied = true
	o.log.Info("merged threads",
		zap.String("source", sourceID),
		zap.String("target", targetID),
		zap.Int("children", len(res.ReparentedChildren)))
	return res, nil
}

// mergeDependencies unions the two dependency lists keyed by target thread
// id. The target's entry wins a key conflict wholesale; entries pointing at
// either side of the merge are dropped entirely.
func mergeDependencies(source, target *types.Thread) (kept, dropped []*types.Dependency) {
	byKey := make(map[string]*types.Dependency)
	var order []string
	for _, d := range source.Dependencies {
		if _, seen := byKey[d.TargetID]; !seen {
			order = append(order, d.TargetID)
		}
		byKey[d.TargetID] = d
	}
	for _, d := range target.Dependencies {
		if _, seen := byKey[d.TargetID]; !seen {
			order = append(order, d.TargetID)
		}
		byKey[d.TargetID] = d // target wins
	}
	for _, key := range order {
		d := byKey[key]
		if d.TargetID == source.ID || d.TargetID == target.ID {
			dropped = append(dropped, d)
			continue
		}
		kept = append(kept, d)
	}
	return kept, dropped
}

// Reparent assigns a new parent after proving the move cannot create a
// cycle: the proposed parent's ancestor chain is walked first, and if the
// entity appears anywhere in it the move is refused with a CycleError.
// An empty newParentID detaches the entity to the root. With inheritGroup
// the entity also takes the new parent's group.
func (o *Ops) Reparent(ctx context.Context, entityID, newParentID string, inheritGroup bool) (*types.Entity, error) {
	return o.reparentTo(ctx, entityID, newParentID, inheritGroup)
}

func (o *Ops) reparentTo(ctx context.Context, entityID, newParentID string, inheritGroup bool) (*types.Entity, error) {
	entity, err := o.s.EntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	var groupID string
	if newParentID != "" {
		parent, err := o.s.EntityByID(ctx, newParentID)
		if err != nil {
			return nil, err
		}
		groupID = parent.GroupID()

		chain, err := o.ancestorChain(ctx, newParentID)
		if err != nil {
			return nil, err
		}
		if entityID == newParentID || contains(chain, entityID) {
			return nil, &CycleError{EntityID: entityID, NewParentID: newParentID, Chain: chain}
		}
	}

	pid := newParentID
	switch entity.Kind {
	case types.KindThread:
		patch := types.ThreadPatch{ParentID: &pid}
		if inheritGroup {
			patch.GroupID = &groupID
		}
		t, err := o.s.UpdateThread(ctx, entityID, patch)
		if err != nil {
			return nil, err
		}
		return types.ThreadEntity(t), nil
	default:
		patch := types.ContainerPatch{ParentID: &pid}
		if inheritGroup {
			patch.GroupID = &groupID
		}
		c, err := o.s.UpdateContainer(ctx, entityID, patch)
		if err != nil {
			return nil, err
		}
		return types.ContainerEntity(c), nil
	}
}

// ancestorChain walks parent links from id upward, nearest ancestor first.
// The walk includes id itself as the first element. Broken parent links
// terminate the chain rather than erroring; a corrupted link should not
// block an otherwise valid move.
func (o *Ops) ancestorChain(ctx context.Context, id string) ([]string, error) {
	var chain []string
	seen := make(map[string]bool)
	cur := id
	for cur != "" && !seen[cur] {
		seen[cur] = true
		chain = append(chain, cur)
		e, err := o.s.EntityByID(ctx, cur)
		if err != nil {
			break
		}
		cur = e.ParentID()
	}
	return chain, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
