// Package sqlite implements the store interface on a local SQLite file.
//
// Scalar fields live in real columns; the tag, dependency, and log lists
// are JSON-encoded text, since nothing queries inside them. Semantics
// mirror the file store exactly: same id generation, same patch merge,
// same log insertion order. Only durability differs, a row at a time
// instead of the whole document.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/strandtools/strand/internal/idgen"
	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DataFileName is the database file inside the strand directory.
const DataFileName = "strand.db"

const schema = `
CREATE TABLE IF NOT EXISTS threads (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	temperature  TEXT NOT NULL,
	size         TEXT NOT NULL,
	importance   INTEGER NOT NULL,
	parent_id    TEXT NOT NULL DEFAULT '',
	group_id     TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '[]',
	dependencies TEXT NOT NULL DEFAULT '[]',
	progress     TEXT NOT NULL DEFAULT '[]',
	details      TEXT NOT NULL DEFAULT '[]',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS containers (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	parent_id   TEXT NOT NULL DEFAULT '',
	group_id    TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	details     TEXT NOT NULL DEFAULT '[]',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_threads_parent    ON threads(parent_id);
CREATE INDEX IF NOT EXISTS idx_threads_group     ON threads(group_id);
CREATE INDEX IF NOT EXISTS idx_threads_status    ON threads(status);
CREATE INDEX IF NOT EXISTS idx_containers_parent ON containers(parent_id);
CREATE INDEX IF NOT EXISTS idx_containers_group  ON containers(group_id);
`

// Store implements store.Store on SQLite via the modernc driver.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema. A single connection is enough for a CLI and sidesteps
// SQLITE_BUSY between concurrent writes.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Row codecs ---

func marshalList(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const threadCols = "id, name, description, status, temperature, size, importance, parent_id, group_id, tags, dependencies, progress, details, created_at, updated_at"

func scanThread(row interface{ Scan(...any) error }) (*types.Thread, error) {
	var t types.Thread
	var status, temperature, size string
	var tags, deps, progress, details string
	var created, updated string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &status, &temperature, &size,
		&t.Importance, &t.ParentID, &t.GroupID, &tags, &deps, &progress, &details,
		&created, &updated)
	if err != nil {
		return nil, err
	}
	t.Status = types.Status(status)
	t.Temperature = types.Temperature(temperature)
	t.Size = types.Size(size)
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: thread %s tags: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
		return nil, fmt.Errorf("sqlite: thread %s dependencies: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(progress), &t.Progress); err != nil {
		return nil, fmt.Errorf("sqlite: thread %s progress: %w", t.ID, err)
	}
	if err := json.Unmarshal([]byte(details), &t.Details); err != nil {
		return nil, fmt.Errorf("sqlite: thread %s details: %w", t.ID, err)
	}
	return &t, nil
}

func (s *Store) writeThread(ctx context.Context, t *types.Thread) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO threads (`+threadCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			status = excluded.status, temperature = excluded.temperature,
			size = excluded.size, importance = excluded.importance,
			parent_id = excluded.parent_id, group_id = excluded.group_id,
			tags = excluded.tags, dependencies = excluded.dependencies,
			progress = excluded.progress, details = excluded.details,
			created_at = excluded.created_at, updated_at = excluded.updated_at`,
		t.ID, t.Name, t.Description, string(t.Status), string(t.Temperature), string(t.Size),
		t.Importance, t.ParentID, t.GroupID, marshalList(t.Tags), marshalList(t.Dependencies),
		marshalList(t.Progress), marshalList(t.Details), fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: write thread %s: %w", t.ID, err)
	}
	return nil
}

const containerCols = "id, name, description, parent_id, group_id, tags, details, created_at, updated_at"

func scanContainer(row interface{ Scan(...any) error }) (*types.Container, error) {
	var c types.Container
	var tags, details, created, updated string
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.GroupID,
		&tags, &details, &created, &updated)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: container %s tags: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(details), &c.Details); err != nil {
		return nil, fmt.Errorf("sqlite: container %s details: %w", c.ID, err)
	}
	return &c, nil
}

func (s *Store) writeContainer(ctx context.Context, c *types.Container) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO containers (`+containerCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			parent_id = excluded.parent_id, group_id = excluded.group_id,
			tags = excluded.tags, details = excluded.details,
			created_at = excluded.created_at, updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Description, c.ParentID, c.GroupID,
		marshalList(c.Tags), marshalList(c.Details), fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: write container %s: %w", c.ID, err)
	}
	return nil
}

func scanGroup(row interface{ Scan(...any) error }) (*types.Group, error) {
	var g types.Group
	var created, updated string
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &created, &updated); err != nil {
		return nil, err
	}
	g.CreatedAt = parseTime(created)
	g.UpdatedAt = parseTime(updated)
	return &g, nil
}

func (s *Store) writeGroup(ctx context.Context, g *types.Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description,
			created_at = excluded.created_at, updated_at = excluded.updated_at`,
		g.ID, g.Name, g.Description, fmtTime(g.CreatedAt), fmtTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: write group %s: %w", g.ID, err)
	}
	return nil
}

// --- Reads ---

// AllThreads returns every thread in insertion order.
func (s *Store) AllThreads(ctx context.Context) ([]*types.Thread, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+threadCols+" FROM threads ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list threads: %w", err)
	}
	defer rows.Close()
	var out []*types.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AllContainers returns every container in insertion order.
func (s *Store) AllContainers(ctx context.Context) ([]*types.Container, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+containerCols+" FROM containers ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list containers: %w", err)
	}
	defer rows.Close()
	var out []*types.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllGroups returns every group in insertion order.
func (s *Store) AllGroups(ctx context.Context) ([]*types.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description, created_at, updated_at FROM groups ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list groups: %w", err)
	}
	defer rows.Close()
	var out []*types.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ThreadByID returns the thread with the exact id, or store.ErrNotFound.
func (s *Store) ThreadByID(ctx context.Context, id string) (*types.Thread, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+threadCols+" FROM threads WHERE id = ?", id)
	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("thread %q: %w", id, store.ErrNotFound)
	}
	return t, err
}

// ThreadByName scans for a case-insensitive name match. SQL LOWER only
// folds ASCII, so the fold happens in Go for parity with the file store.
func (s *Store) ThreadByName(ctx context.Context, name string) (*types.Thread, error) {
	all, err := s.AllThreads(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("thread %q: %w", name, store.ErrNotFound)
}

// ContainerByID returns the container with the exact id, or store.ErrNotFound.
func (s *Store) ContainerByID(ctx context.Context, id string) (*types.Container, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+containerCols+" FROM containers WHERE id = ?", id)
	c, err := scanContainer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("container %q: %w", id, store.ErrNotFound)
	}
	return c, err
}

// ContainerByName scans for a case-insensitive name match.
func (s *Store) ContainerByName(ctx context.Context, name string) (*types.Container, error) {
	all, err := s.AllContainers(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("container %q: %w", name, store.ErrNotFound)
}

// GroupByID returns the group with the exact id, or store.ErrNotFound.
func (s *Store) GroupByID(ctx context.Context, id string) (*types.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, description, created_at, updated_at FROM groups WHERE id = ?", id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %q: %w", id, store.ErrNotFound)
	}
	return g, err
}

// GroupByName scans for a case-insensitive name match.
func (s *Store) GroupByName(ctx context.Context, name string) (*types.Group, error) {
	all, err := s.AllGroups(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range all {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", name, store.ErrNotFound)
}

// Entities returns threads then containers as one polymorphic list.
func (s *Store) Entities(ctx context.Context) ([]*types.Entity, error) {
	threads, err := s.AllThreads(ctx)
	if err != nil {
		return nil, err
	}
	containers, err := s.AllContainers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Entity, 0, len(threads)+len(containers))
	for _, t := range threads {
		out = append(out, types.ThreadEntity(t))
	}
	for _, c := range containers {
		out = append(out, types.ContainerEntity(c))
	}
	return out, nil
}

// EntityByID looks up the shared thread+container id space.
func (s *Store) EntityByID(ctx context.Context, id string) (*types.Entity, error) {
	if t, err := s.ThreadByID(ctx, id); err == nil {
		return types.ThreadEntity(t), nil
	}
	if c, err := s.ContainerByID(ctx, id); err == nil {
		return types.ContainerEntity(c), nil
	}
	return nil, fmt.Errorf("entity %q: %w", id, store.ErrNotFound)
}

// EntityByName looks up threads first, then containers, case-insensitively.
func (s *Store) EntityByName(ctx context.Context, name string) (*types.Entity, error) {
	if t, err := s.ThreadByName(ctx, name); err == nil {
		return types.ThreadEntity(t), nil
	}
	if c, err := s.ContainerByName(ctx, name); err == nil {
		return types.ContainerEntity(c), nil
	}
	return nil, fmt.Errorf("entity %q: %w", name, store.ErrNotFound)
}

// --- Mutations ---

func (s *Store) entityIDExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM threads WHERE id = ?) + (SELECT COUNT(*) FROM containers WHERE id = ?)",
		id, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: id lookup: %w", err)
	}
	return n > 0, nil
}

func (s *Store) nextEntityID(ctx context.Context, prefix, name, description string, now time.Time) (string, error) {
	for nonce := 0; ; nonce++ {
		id := idgen.NewEntityID(prefix, name, description, now, nonce)
		taken, err := s.entityIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		s.log.Debug("entity id collision, retrying", zap.String("id", id), zap.Int("nonce", nonce))
	}
}

// CreateThread stamps id, defaults, and timestamps, then inserts.
func (s *Store) CreateThread(ctx context.Context, t *types.Thread) error {
	now := time.Now().UTC()
	if t.ID == "" {
		id, err := s.nextEntityID(ctx, idgen.ThreadPrefix, t.Name, t.Description, now)
		if err != nil {
			return err
		}
		t.ID = id
	}
	t.SetDefaults()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Tags = types.NormalizeTags(t.Tags)
	return s.writeThread(ctx, t)
}

// CreateContainer stamps id and timestamps, then inserts.
func (s *Store) CreateContainer(ctx context.Context, c *types.Container) error {
	now := time.Now().UTC()
	if c.ID == "" {
		id, err := s.nextEntityID(ctx, idgen.ContainerPrefix, c.Name, c.Description, now)
		if err != nil {
			return err
		}
		c.ID = id
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Tags = types.NormalizeTags(c.Tags)
	return s.writeContainer(ctx, c)
}

// CreateGroup stamps id and timestamps, then inserts. Groups have their
// own id space, separate from threads and containers.
func (s *Store) CreateGroup(ctx context.Context, g *types.Group) error {
	now := time.Now().UTC()
	if g.ID == "" {
		for nonce := 0; ; nonce++ {
			id := idgen.NewEntityID(idgen.GroupPrefix, g.Name, g.Description, now, nonce)
			if _, err := s.GroupByID(ctx, id); err != nil {
				g.ID = id
				break
			}
		}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.writeGroup(ctx, g)
}

// UpdateThread shallow-merges the patch onto the record, stamps UpdatedAt,
// and writes the row back.
func (s *Store) UpdateThread(ctx context.Context, id string, patch types.ThreadPatch) (*types.Thread, error) {
	t, err := s.ThreadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.ApplyThreadPatch(t, patch)
	if err := s.writeThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateContainer shallow-merges the patch onto the record, stamps
// UpdatedAt, and writes the row back.
func (s *Store) UpdateContainer(ctx context.Context, id string, patch types.ContainerPatch) (*types.Container, error) {
	c, err := s.ContainerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.ApplyContainerPatch(c, patch)
	if err := s.writeContainer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateGroup shallow-merges the patch onto the record, stamps UpdatedAt,
// and writes the row back.
func (s *Store) UpdateGroup(ctx context.Context, id string, patch types.GroupPatch) (*types.Group, error) {
	g, err := s.GroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.ApplyGroupPatch(g, patch)
	if err := s.writeGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteThread removes the thread row. Child-count guarding is a caller
// concern; the repository removes unconditionally.
func (s *Store) DeleteThread(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM threads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete thread %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("thread %q: %w", id, store.ErrNotFound)
	}
	return nil
}

// DeleteContainer removes the container row.
func (s *Store) DeleteContainer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM containers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete container %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("container %q: %w", id, store.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes the group row and clears the group reference on
// every thread and container that pointed at it.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete group %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("group %q: %w", id, store.ErrNotFound)
	}
	now := fmtTime(time.Now().UTC())
	if _, err := s.db.ExecContext(ctx,
		"UPDATE threads SET group_id = '', updated_at = ? WHERE group_id = ?", now, id); err != nil {
		return fmt.Errorf("sqlite: clear group refs: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE containers SET group_id = '', updated_at = ? WHERE group_id = ?", now, id); err != nil {
		return fmt.Errorf("sqlite: clear group refs: %w", err)
	}
	return nil
}

// AppendProgress inserts entries into the thread's progress log, keeping
// ascending timestamp order with a stable insertion, and writes the row
// back.
func (s *Store) AppendProgress(ctx context.Context, threadID string, entries ...*types.ProgressEntry) (*types.Thread, error) {
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
		t.Progress = store.InsertProgress(t.Progress, e)
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.writeThread(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AppendDetail appends a detail entry to a thread or container.
func (s *Store) AppendDetail(ctx context.Context, entityID string, entry *types.DetailEntry) (*types.Entity, error) {
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
		e.Thread.Details = store.InsertDetail(e.Thread.Details, entry)
		e.Thread.UpdatedAt = now
		if err := s.writeThread(ctx, e.Thread); err != nil {
			return nil, err
		}
	case types.KindContainer:
		e.Container.Details = store.InsertDetail(e.Container.Details, entry)
		e.Container.UpdatedAt = now
		if err := s.writeContainer(ctx, e.Container); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// --- Queries ---

// FindThreads loads all threads and applies the shared filter check.
// Tag and search predicates cannot be pushed into SQL without diverging
// from the file store, and the dataset is locally sized.
func (s *Store) FindThreads(ctx context.Context, filter types.ThreadFilter) ([]*types.Thread, error) {
	all, err := s.AllThreads(ctx)
	if err != nil {
		return nil, err
	}
	var out []*types.Thread
	for _, t := range all {
		if store.MatchThread(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindContainers loads all containers and applies the shared filter check.
func (s *Store) FindContainers(ctx context.Context, filter types.ContainerFilter) ([]*types.Container, error) {
	all, err := s.AllContainers(ctx)
	if err != nil {
		return nil, err
	}
	var out []*types.Container
	for _, c := range all {
		if store.MatchContainer(c, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}
