// Package store provides the entity repository over the strand dataset.
//
// The concrete local implementation is FileStore, which keeps the dataset
// in memory and re-serializes the whole document through the codec on every
// mutation. The Store interface exists so alternative backends (the sqlite
// sub-package, mocks, a future remote adapter) can be substituted without
// touching consumers.
package store

import (
	"context"
	"errors"

	"github.com/strandtools/strand/internal/types"
)

// ErrNotFound is returned when a requested entity does not exist.
// It is an expected value at every call site, never a panic.
var ErrNotFound = errors.New("not found")

// Store is the collaborator-facing surface of the persistence engine.
// Every mutating call persists the full dataset before returning; a
// network-backed implementation may defer instead, which is why each
// operation takes a context.
type Store interface {
	// Per-kind accessors
	AllThreads(ctx context.Context) ([]*types.Thread, error)
	AllContainers(ctx context.Context) ([]*types.Container, error)
	AllGroups(ctx context.Context) ([]*types.Group, error)
	ThreadByID(ctx context.Context, id string) (*types.Thread, error)
	ThreadByName(ctx context.Context, name string) (*types.Thread, error)
	ContainerByID(ctx context.Context, id string) (*types.Container, error)
	ContainerByName(ctx context.Context, name string) (*types.Container, error)
	GroupByID(ctx context.Context, id string) (*types.Group, error)
	GroupByName(ctx context.Context, name string) (*types.Group, error)

	// Polymorphic accessors over the thread+container tree
	Entities(ctx context.Context) ([]*types.Entity, error)
	EntityByID(ctx context.Context, id string) (*types.Entity, error)
	EntityByName(ctx context.Context, name string) (*types.Entity, error)

	// Mutations. Create stamps id and timestamps in place and returns the
	// stored record through its argument; Update merges the patch and
	// returns the merged record. Name uniqueness is advisory and checked
	// by the command layer, never here.
	CreateThread(ctx context.Context, t *types.Thread) error
	CreateContainer(ctx context.Context, c *types.Container) error
	CreateGroup(ctx context.Context, g *types.Group) error
	UpdateThread(ctx context.Context, id string, patch types.ThreadPatch) (*types.Thread, error)
	UpdateContainer(ctx context.Context, id string, patch types.ContainerPatch) (*types.Container, error)
	UpdateGroup(ctx context.Context, id string, patch types.GroupPatch) (*types.Group, error)
	DeleteThread(ctx context.Context, id string) error
	DeleteContainer(ctx context.Context, id string) error
	DeleteGroup(ctx context.Context, id string) error

	// Append-only logs. Entries are inserted preserving ascending timestamp
	// order; nothing ever removes them.
	AppendProgress(ctx context.Context, threadID string, entries ...*types.ProgressEntry) (*types.Thread, error)
	AppendDetail(ctx context.Context, entityID string, entry *types.DetailEntry) (*types.Entity, error)

	// Filtered queries, O(n) over the locally-sized dataset
	FindThreads(ctx context.Context, filter types.ThreadFilter) ([]*types.Thread, error)
	FindContainers(ctx context.Context, filter types.ContainerFilter) ([]*types.Container, error)

	Close() error
}
