// Package types defines core data structures for the strand activity tracker.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the current state of a thread.
type Status string

// Thread status constants
const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// IsValid checks if the status value is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusStopped, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status state machine allows moving to
// next. active, paused, and stopped are freely interchangeable; any of those
// may complete or archive; completed may only archive; archived may only
// reactivate.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	switch s {
	case StatusActive, StatusPaused, StatusStopped:
		return true
	case StatusCompleted:
		return next == StatusArchived
	case StatusArchived:
		return next == StatusActive
	}
	return false
}

// Temperature is an ordered momentum signal, independent of status.
// hot > warm > tepid > cold > freezing > frozen.
type Temperature string

// Temperature constants, hottest first
const (
	TempHot      Temperature = "hot"
	TempWarm     Temperature = "warm"
	TempTepid    Temperature = "tepid"
	TempCold     Temperature = "cold"
	TempFreezing Temperature = "freezing"
	TempFrozen   Temperature = "frozen"
)

var temperatureRank = map[Temperature]int{
	TempHot:      5,
	TempWarm:     4,
	TempTepid:    3,
	TempCold:     2,
	TempFreezing: 1,
	TempFrozen:   0,
}

// IsValid checks if the temperature value is valid.
func (t Temperature) IsValid() bool {
	_, ok := temperatureRank[t]
	return ok
}

// Rank returns the ordering position of the temperature; higher is hotter.
// Unknown temperatures rank below frozen.
func (t Temperature) Rank() int {
	if r, ok := temperatureRank[t]; ok {
		return r
	}
	return -1
}

// Size is a rough scale estimate for a thread.
type Size string

// Size constants
const (
	SizeTiny   Size = "tiny"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeHuge   Size = "huge"
)

// IsValid checks if the size value is valid.
func (s Size) IsValid() bool {
	switch s {
	case SizeTiny, SizeSmall, SizeMedium, SizeLarge, SizeHuge:
		return true
	}
	return false
}

// Dependency records why a thread depends on another thread.
type Dependency struct {
	TargetID string `json:"target_id"`
	Why      string `json:"why,omitempty"`
	What     string `json:"what,omitempty"`
	How      string `json:"how,omitempty"`
	When     string `json:"when,omitempty"`
}

// ProgressEntry is one append-only progress log record.
type ProgressEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// DetailEntry is one append-only detail record; the latest entry is the
// current snapshot of the entity's long-form state.
type DetailEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// Thread represents a tracked activity stream.
type Thread struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Status       Status           `json:"status,omitempty"`
	Temperature  Temperature      `json:"temperature,omitempty"`
	Size         Size             `json:"size,omitempty"`
	Importance   int              `json:"importance"` // 1 (lowest) to 5 (highest)
	ParentID     string           `json:"parent_id,omitempty"`
	GroupID      string           `json:"group_id,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	Dependencies []*Dependency    `json:"dependencies,omitempty"`
	Progress     []*ProgressEntry `json:"progress,omitempty"`
	Details      []*DetailEntry   `json:"details,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Validate checks if the thread has valid field values.
func (t *Thread) Validate() error {
	if len(t.Name) == 0 {
		return &ValidationError{Field: "name", Msg: "name is required"}
	}
	if len(t.Name) > 200 {
		return &ValidationError{Field: "name", Msg: fmt.Sprintf("name must be 200 characters or less (got %d)", len(t.Name))}
	}
	if t.Importance < 1 || t.Importance > 5 {
		return &ValidationError{Field: "importance", Msg: fmt.Sprintf("importance must be between 1 and 5 (got %d)", t.Importance)}
	}
	if !t.Status.IsValid() {
		return &ValidationError{Field: "status", Msg: fmt.Sprintf("invalid status: %s", t.Status)}
	}
	if !t.Temperature.IsValid() {
		return &ValidationError{Field: "temperature", Msg: fmt.Sprintf("invalid temperature: %s", t.Temperature)}
	}
	if !t.Size.IsValid() {
		return &ValidationError{Field: "size", Msg: fmt.Sprintf("invalid size: %s", t.Size)}
	}
	return nil
}

// SetDefaults applies default values for fields omitted on import or create.
// Missing enums default to active/tepid/medium; zero importance becomes 3.
func (t *Thread) SetDefaults() {
	if t.Status == "" {
		t.Status = StatusActive
	}
	if t.Temperature == "" {
		t.Temperature = TempTepid
	}
	if t.Size == "" {
		t.Size = SizeMedium
	}
	if t.Importance == 0 {
		t.Importance = 3
	}
}

// CurrentDetail returns the latest detail entry, or nil if none exist.
func (t *Thread) CurrentDetail() *DetailEntry {
	if len(t.Details) == 0 {
		return nil
	}
	return t.Details[len(t.Details)-1]
}

// Container is a pure grouping node in the same tree as threads. It shares
// the thread id space and parent field but carries no activity-tracking
// state.
type Container struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ParentID    string         `json:"parent_id,omitempty"`
	GroupID     string         `json:"group_id,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Details     []*DetailEntry `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Validate checks if the container has valid field values.
func (c *Container) Validate() error {
	if len(c.Name) == 0 {
		return &ValidationError{Field: "name", Msg: "name is required"}
	}
	if len(c.Name) > 200 {
		return &ValidationError{Field: "name", Msg: fmt.Sprintf("name must be 200 characters or less (got %d)", len(c.Name))}
	}
	return nil
}

// CurrentDetail returns the latest detail entry, or nil if none exist.
func (c *Container) CurrentDetail() *DetailEntry {
	if len(c.Details) == 0 {
		return nil
	}
	return c.Details[len(c.Details)-1]
}

// Group is a flat, non-nesting named collection. Threads and containers
// reference at most one group via their GroupID.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the group has valid field values.
func (g *Group) Validate() error {
	if len(g.Name) == 0 {
		return &ValidationError{Field: "name", Msg: "name is required"}
	}
	return nil
}

// EntityKind discriminates the polymorphic thread/container tree.
type EntityKind string

// Entity kind constants
const (
	KindThread    EntityKind = "thread"
	KindContainer EntityKind = "container"
)

// Entity is the tagged union over threads and containers. Exactly one of
// Thread or Container is non-nil, matching Kind.
type Entity struct {
	Kind      EntityKind
	Thread    *Thread
	Container *Container
}

// ThreadEntity wraps a thread as an Entity.
func ThreadEntity(t *Thread) *Entity {
	return &Entity{Kind: KindThread, Thread: t}
}

// ContainerEntity wraps a container as an Entity.
func ContainerEntity(c *Container) *Entity {
	return &Entity{Kind: KindContainer, Container: c}
}

// ID returns the entity's id regardless of kind.
func (e *Entity) ID() string {
	if e.Kind == KindThread {
		return e.Thread.ID
	}
	return e.Container.ID
}

// Name returns the entity's display name regardless of kind.
func (e *Entity) Name() string {
	if e.Kind == KindThread {
		return e.Thread.Name
	}
	return e.Container.Name
}

// ParentID returns the entity's parent id, or "" for a root entity.
func (e *Entity) ParentID() string {
	if e.Kind == KindThread {
		return e.Thread.ParentID
	}
	return e.Container.ParentID
}

// GroupID returns the entity's group id, or "" when ungrouped.
func (e *Entity) GroupID() string {
	if e.Kind == KindThread {
		return e.Thread.GroupID
	}
	return e.Container.GroupID
}

// Tags returns the entity's tag set regardless of kind.
func (e *Entity) Tags() []string {
	if e.Kind == KindThread {
		return e.Thread.Tags
	}
	return e.Container.Tags
}

// CurrentSchemaVersion is stamped on every persisted dataset. Version "1"
// documents predate the containers array; the codec migrates them forward.
const CurrentSchemaVersion = "2"

// Dataset is the root aggregate and the unit of persistence.
type Dataset struct {
	Threads       []*Thread    `json:"threads"`
	Containers    []*Container `json:"containers"`
	Groups        []*Group     `json:"groups"`
	SchemaVersion string       `json:"schemaVersion"`
}

// NewDataset returns a valid empty dataset at the current schema version.
func NewDataset() *Dataset {
	return &Dataset{
		Threads:       []*Thread{},
		Containers:    []*Container{},
		Groups:        []*Group{},
		SchemaVersion: CurrentSchemaVersion,
	}
}

// ThreadFilter selects threads in Find queries. Nil pointer fields match
// everything; TagsAny uses any-of semantics; Search is a case-insensitive
// substring over name and description.
type ThreadFilter struct {
	Status      *Status
	Temperature *Temperature
	Size        *Size
	Importance  *int
	ParentID    *string
	GroupID     *string
	TagsAny     []string
	Search      string
}

// ContainerFilter selects containers in Find queries.
type ContainerFilter struct {
	ParentID *string
	GroupID  *string
	TagsAny  []string
	Search   string
}

// ThreadPatch is a partial update; nil fields leave the record unchanged.
// Progress and details are append-only and deliberately absent; use the
// store's Append operations instead.
type ThreadPatch struct {
	Name         *string
	Description  *string
	Status       *Status
	Temperature  *Temperature
	Size         *Size
	Importance   *int
	ParentID     *string // empty string clears the parent
	GroupID      *string // empty string clears the group
	Tags         *[]string
	Dependencies *[]*Dependency
}

// ContainerPatch is a partial update for containers.
type ContainerPatch struct {
	Name        *string
	Description *string
	ParentID    *string
	GroupID     *string
	Tags        *[]string
}

// GroupPatch is a partial update for groups.
type GroupPatch struct {
	Name        *string
	Description *string
}

// ValidationError reports a caller-supplied field value the engine refuses
// to store. The repository itself never raises it; command layers do.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NormalizeTags lowercases, trims, dedupes, and sorts a tag list,
// returning the normalized slice.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
