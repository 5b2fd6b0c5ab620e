// Package resolver turns a user-typed identifier into exactly one entity.
//
// Resolution is a four-stage cascade, first hit wins:
//
//  1. exact id
//  2. exact case-insensitive name
//  3. case-insensitive id prefix, unique
//  4. case-insensitive name substring, unique
//
// A stage that matches more than one record stops the cascade with an
// AmbiguousError carrying every candidate; nothing is ever auto-picked.
// No match at any stage is store.ErrNotFound. Commands call this once
// instead of each reimplementing the same matching.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

// Candidate identifies one record an ambiguous query matched.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AmbiguousError reports a query that matched more than one record.
type AmbiguousError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	ids := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		ids[i] = fmt.Sprintf("%s (%s)", c.ID, c.Name)
	}
	return fmt.Sprintf("%q is ambiguous, matches %d: %s; use more characters to disambiguate",
		e.Query, len(e.Candidates), strings.Join(ids, ", "))
}

// ref is the id/name pair the cascade operates on.
type ref struct {
	id   string
	name string
}

// resolve runs the cascade and returns the index of the single match.
func resolve(items []ref, query string) (int, error) {
	// Stage 1: exact id.
	for i, it := range items {
		if it.id == query {
			return i, nil
		}
	}

	// Stage 2: exact case-insensitive name. Names are only advisorily
	// unique, so duplicates surface as ambiguity here too.
	if idx, err := uniqueMatch(items, query, func(it ref) bool {
		return strings.EqualFold(it.name, query)
	}); idx >= 0 || err != nil {
		return idx, err
	}

	// Stage 3: unique case-insensitive id prefix.
	lower := strings.ToLower(query)
	if idx, err := uniqueMatch(items, query, func(it ref) bool {
		return strings.HasPrefix(strings.ToLower(it.id), lower)
	}); idx >= 0 || err != nil {
		return idx, err
	}

	// Stage 4: unique case-insensitive name substring.
	if idx, err := uniqueMatch(items, query, func(it ref) bool {
		return strings.Contains(strings.ToLower(it.name), lower)
	}); idx >= 0 || err != nil {
		return idx, err
	}

	return -1, fmt.Errorf("nothing matching %q: %w", query, store.ErrNotFound)
}

// uniqueMatch returns the single index satisfying match, -1 when nothing
// does, or an AmbiguousError listing every hit when several do.
func uniqueMatch(items []ref, query string, match func(ref) bool) (int, error) {
	found := -1
	var cands []Candidate
	for i, it := range items {
		if !match(it) {
			continue
		}
		found = i
		cands = append(cands, Candidate{ID: it.id, Name: it.name})
	}
	if len(cands) > 1 {
		return -1, &AmbiguousError{Query: query, Candidates: cands}
	}
	return found, nil
}

// Thread resolves query against all threads.
func Thread(ctx context.Context, s store.Store, query string) (*types.Thread, error) {
	threads, err := s.AllThreads(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ref, len(threads))
	for i, t := range threads {
		items[i] = ref{id: t.ID, name: t.Name}
	}
	idx, err := resolve(items, query)
	if err != nil {
		return nil, err
	}
	return threads[idx], nil
}

// Container resolves query against all containers.
func Container(ctx context.Context, s store.Store, query string) (*types.Container, error) {
	containers, err := s.AllContainers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ref, len(containers))
	for i, c := range containers {
		items[i] = ref{id: c.ID, name: c.Name}
	}
	idx, err := resolve(items, query)
	if err != nil {
		return nil, err
	}
	return containers[idx], nil
}

// Group resolves query against all groups.
func Group(ctx context.Context, s store.Store, query string) (*types.Group, error) {
	groups, err := s.AllGroups(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ref, len(groups))
	for i, g := range groups {
		items[i] = ref{id: g.ID, name: g.Name}
	}
	idx, err := resolve(items, query)
	if err != nil {
		return nil, err
	}
	return groups[idx], nil
}

// Entity resolves query against the whole polymorphic thread+container
// tree, so a query can land on either kind.
func Entity(ctx context.Context, s store.Store, query string) (*types.Entity, error) {
	entities, err := s.Entities(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ref, len(entities))
	for i, e := range entities {
		items[i] = ref{id: e.ID(), name: e.Name()}
	}
	idx, err := resolve(items, query)
	if err != nil {
		return nil, err
	}
	return entities[idx], nil
}
