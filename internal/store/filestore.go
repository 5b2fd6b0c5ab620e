package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/strandtools/strand/internal/codec"
	"github.com/strandtools/strand/internal/idgen"
	"github.com/strandtools/strand/internal/types"
)

// FileStore is the local whole-file repository. The dataset is loaded once
// through the codec's recovery chain and held in memory; every mutation
// persists the entire document. One process is assumed to own the file for
// the duration of an operation: two concurrent writers race and the later
// save wins at whole-file granularity.
type FileStore struct {
	c    *codec.Codec
	data *types.Dataset
	log  *zap.Logger
}

var _ Store = (*FileStore)(nil)

// Open loads the dataset from dir and returns a ready store.
func Open(dir string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	c := codec.New(dir, log)
	return &FileStore{c: c, data: c.Load(), log: log}
}

// Codec exposes the underlying codec, used by the backup manager which
// needs the same file pair.
func (s *FileStore) Codec() *codec.Codec { return s.c }

// Dataset returns the live dataset. Callers must not mutate it.
func (s *FileStore) Dataset() *types.Dataset { return s.data }

// Close is a no-op for the file store; the document is already durable.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) persist() error {
	return s.c.Save(s.data)
}

// entityIDExists reports whether id is taken in the shared
// thread+container id space.
func (s *FileStore) entityIDExists(id string) bool {
	for _, t := range s.data.Threads {
		if t.ID == id {
			return true
		}
	}
	for _, c := range s.data.Containers {
		if c.ID == id {
			return true
		}
	}
	return false
}

// nextEntityID generates a fresh id with the given prefix, retrying the
// hash nonce on collision.
func (s *FileStore) nextEntityID(prefix, name, description string, now time.Time) string {
	for nonce := 0; ; nonce++ {
		id := idgen.NewEntityID(prefix, name, description, now, nonce)
		if !s.entityIDExists(id) {
			return id
		}
		s.log.Debug("entity id collision, retrying", zap.String("id", id), zap.Int("nonce", nonce))
	}
}

// --- Reads ---

// AllThreads returns every thread in document order.
func (s *FileStore) AllThreads(_ context.Context) ([]*types.Thread, error) {
	out := make([]*types.Thread, len(s.data.Threads))
	copy(out, s.data.Threads)
	return out, nil
}

// AllContainers returns every container in document order.
func (s *FileStore) AllContainers(_ context.Context) ([]*types.Container, error) {
	out := make([]*types.Container, len(s.data.Containers))
	copy(out, s.data.Containers)
	return out, nil
}

// AllGroups returns every group in document order.
func (s *FileStore) AllGroups(_ context.Context) ([]*types.Group, error) {
	out := make([]*types.Group, len(s.data.Groups))
	copy(out, s.data.Groups)
	return out, nil
}

// ThreadByID returns the thread with the exact id, or ErrNotFound.
func (s *FileStore) ThreadByID(_ context.Context, id string) (*types.Thread, error) {
	for _, t := range s.data.Threads {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("thread %q: %w", id, ErrNotFound)
}

// ThreadByName returns the first thread whose name matches
// case-insensitively, or ErrNotFound.
func (s *FileStore) ThreadByName(_ context.Context, name string) (*types.Thread, error) {
	for _, t := range s.data.Threads {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("thread %q: %w", name, ErrNotFound)
}

// ContainerByID returns the container with the exact id, or ErrNotFound.
func (s *FileStore) ContainerByID(_ context.Context, id string) (*types.Container, error) {
	for _, c := range s.data.Containers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("container %q: %w", id, ErrNotFound)
}

// ContainerByName returns the first container whose name matches
// case-insensitively, or ErrNotFound.
func (s *FileStore) ContainerByName(_ context.Context, name string) (*types.Container, error) {
	for _, c := range s.data.Containers {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("container %q: %w", name, ErrNotFound)
}

// GroupByID returns the group with the exact id, or ErrNotFound.
func (s *FileStore) GroupByID(_ context.Context, id string) (*types.Group, error) {
	for _, g := range s.data.Groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", id, ErrNotFound)
}

// GroupByName returns the first group whose name matches
// case-insensitively, or ErrNotFound.
func (s *FileStore) GroupByName(_ context.Context, name string) (*types.Group, error) {
	for _, g := range s.data.Groups {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
}

// Entities returns threads then containers as one polymorphic list.
func (s *FileStore) Entities(_ context.Context) ([]*types.Entity, error) {
	out := make([]*types.Entity, 0, len(s.data.Threads)+len(s.data.Containers))
	for _, t := range s.data.Threads {
		out = append(out, types.ThreadEntity(t))
	}
	for _, c := range s.data.Containers {
		out = append(out, types.ContainerEntity(c))
	}
	return out, nil
}

// EntityByID looks up the shared thread+container id space.
func (s *FileStore) EntityByID(ctx context.Context, id string) (*types.Entity, error) {
	if t, err := s.ThreadByID(ctx, id); err == nil {
		return types.ThreadEntity(t), nil
	}
	if c, err := s.ContainerByID(ctx, id); err == nil {
		return types.ContainerEntity(c), nil
	}
	return nil, fmt.Errorf("entity %q: %w", id, ErrNotFound)
}

// EntityByName looks up threads first, then containers, case-insensitively.
func (s *FileStore) EntityByName(ctx context.Context, name string) (*types.Entity, error) {
	if t, err := s.ThreadByName(ctx, name); err == nil {
		return types.ThreadEntity(t), nil
	}
	if c, err := s.ContainerByName(ctx, name); err == nil {
		return types.ContainerEntity(c), nil
	}
	return nil, fmt.Errorf("entity %q: %w", name, ErrNotFound)
}

// --- Mutations ---

// CreateThread stamps id, defaults, and timestamps, appends, and persists.
func (s *FileStore) CreateThread(_ context.Context, t *types.Thread) error {
	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = s.nextEntityID(idgen.ThreadPrefix, t.Name, t.Description, now)
	}
	t.SetDefaults()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Tags = types.NormalizeTags(t.Tags)
	s.data.Threads = append(s.data.Threads, t)
	return s.persist()
}

// CreateContainer stamps id and timestamps, appends, and persists.
func (s *FileStore) CreateContainer(_ context.Context, c *types.Container) error {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = s.nextEntityID(idgen.ContainerPrefix, c.Name, c.Description, now)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Tags = types.NormalizeTags(c.Tags)
	s.data.Containers = append(s.data.Containers, c)
	return s.persist()
}

// CreateGroup stamps id and timestamps, appends, and persists. Groups have
// their own id space, separate from threads and containers.
func (s *FileStore) CreateGroup(_ context.Context, g *types.Group) error {
	now := time.Now().UTC()
	if g.ID == "" {
		for nonce := 0; ; nonce++ {
			id := idgen.NewEntityID(idgen.GroupPrefix, g.Name, g.Description, now, nonce)
			if _, err := s.GroupByID(context.Background(), id); err != nil {
				g.ID = id
				break
			}
		}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	s.data.Groups = append(s.data.Groups, g)
	return s.persist()
}

// UpdateThread shallow-merges the patch onto the record, stamps UpdatedAt,
// persists, and returns the merged record.
func (s *FileStore) UpdateThread(ctx context.Context, id string, patch types.ThreadPatch) (*types.Thread, error) {
	t, err := s.ThreadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ApplyThreadPatch(t, patch)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateContainer shallow-merges the patch onto the record, stamps
// UpdatedAt, persists, and returns the merged record.
func (s *FileStore) UpdateContainer(ctx context.Context, id string, patch types.ContainerPatch) (*types.Container, error) {
	c, err := s.ContainerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ApplyContainerPatch(c, patch)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateGroup shallow-merges the patch onto the record, stamps UpdatedAt,
// persists, and returns the merged record.
func (s *FileStore) UpdateGroup(ctx context.Context, id string, patch types.GroupPatch) (*types.Group, error) {
	g, err := s.GroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ApplyGroupPatch(g, patch)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteThread removes the thread and persists. Child-count guarding is a
// caller concern; the repository removes unconditionally.
func (s *FileStore) DeleteThread(_ context.Context, id string) error {
	for i, t := range s.data.Threads {
		if t.ID == id {
			s.data.Threads = append(s.data.Threads[:i], s.data.Threads[i+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("thread %q: %w", id, ErrNotFound)
}

// DeleteContainer removes the container and persists.
func (s *FileStore) DeleteContainer(_ context.Context, id string) error {
	for i, c := range s.data.Containers {
		if c.ID == id {
			s.data.Containers = append(s.data.Containers[:i], s.data.Containers[i+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("container %q: %w", id, ErrNotFound)
}

// DeleteGroup removes the group, clears dangling GroupID references so the
// referential invariant holds, and persists.
func (s *FileStore) DeleteGroup(_ context.Context, id string) error {
	idx := -1
	for i, g := range s.data.Groups {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("group %q: %w", id, ErrNotFound)
	}
	s.data.Groups = append(s.data.Groups[:idx], s.data.Groups[idx+1:]...)
	now := time.Now().UTC()
	for _, t := range s.data.Threads {
		if t.GroupID == id {
			t.GroupID = ""
			t.UpdatedAt = now
		}
	}
	for _, c := range s.data.Containers {
		if c.GroupID == id {
			c.GroupID = ""
			c.UpdatedAt = now
		}
	}
	return s.persist()
}

// AppendProgress inserts entries into the thread's progress log, keeping
// ascending timestamp order with a stable insertion, and persists.
func (s *FileStore) AppendProgress(ctx context.Context, threadID string, entries ...*types.ProgressEntry) (*types.Thread, error) {
	t, err := s.ThreadByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = idgen.NewEntryID()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}
		t.Progress = InsertProgress(t.Progress, e)
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.persist(); err != nil {
		return nil, err
	}
	return t, nil
}

// AppendDetail appends a detail entry to a thread or container and persists.
func (s *FileStore) AppendDetail(ctx context.Context, entityID string, entry *types.DetailEntry) (*types.Entity, error) {
	e, err := s.EntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = idgen.NewEntryID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	now := time.Now().UTC()
	switch e.Kind {
	case types.KindThread:
		e.Thread.Details = InsertDetail(e.Thread.Details, entry)
		e.Thread.UpdatedAt = now
	case types.KindContainer:
		e.Container.Details = InsertDetail(e.Container.Details, entry)
		e.Container.UpdatedAt = now
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return e, nil
}

// InsertProgress places e after every entry with an equal-or-earlier
// timestamp, so concatenating two logs entry-by-entry is a stable
// timestamp-ascending merge.
func InsertProgress(log []*types.ProgressEntry, e *types.ProgressEntry) []*types.ProgressEntry {
	i := len(log)
	for i > 0 && log[i-1].Timestamp.After(e.Timestamp) {
		i--
	}
	log = append(log, nil)
	copy(log[i+1:], log[i:])
	log[i] = e
	return log
}

func InsertDetail(log []*types.DetailEntry, e *types.DetailEntry) []*types.DetailEntry {
	i := len(log)
	for i > 0 && log[i-1].Timestamp.After(e.Timestamp) {
		i--
	}
	log = append(log, nil)
	copy(log[i+1:], log[i:])
	log[i] = e
	return log
}

// --- Queries ---

// FindThreads scans all threads against the filter.
func (s *FileStore) FindThreads(_ context.Context, filter types.ThreadFilter) ([]*types.Thread, error) {
	var out []*types.Thread
	for _, t := range s.data.Threads {
		if MatchThread(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindContainers scans all containers against the filter.
func (s *FileStore) FindContainers(_ context.Context, filter types.ContainerFilter) ([]*types.Container, error) {
	var out []*types.Container
	for _, c := range s.data.Containers {
		if MatchContainer(c, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

// MatchThread reports whether t passes every set field of f. Backends
// that cannot push a filter clause into their query share this check.
func MatchThread(t *types.Thread, f types.ThreadFilter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Temperature != nil && t.Temperature != *f.Temperature {
		return false
	}
	if f.Size != nil && t.Size != *f.Size {
		return false
	}
	if f.Importance != nil && t.Importance != *f.Importance {
		return false
	}
	if f.ParentID != nil && t.ParentID != *f.ParentID {
		return false
	}
	if f.GroupID != nil && t.GroupID != *f.GroupID {
		return false
	}
	if len(f.TagsAny) > 0 && !anyTag(t.Tags, f.TagsAny) {
		return false
	}
	if f.Search != "" && !textMatch(f.Search, t.Name, t.Description) {
		return false
	}
	return true
}

func MatchContainer(c *types.Container, f types.ContainerFilter) bool {
	if f.ParentID != nil && c.ParentID != *f.ParentID {
		return false
	}
	if f.GroupID != nil && c.GroupID != *f.GroupID {
		return false
	}
	if len(f.TagsAny) > 0 && !anyTag(c.Tags, f.TagsAny) {
		return false
	}
	if f.Search != "" && !textMatch(f.Search, c.Name, c.Description) {
		return false
	}
	return true
}

func anyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func textMatch(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
