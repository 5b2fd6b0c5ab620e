package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/strandtools/strand/internal/resolver"
	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

// fatalResolve renders resolution failures uniformly and exits. Ambiguous
// queries list every candidate so the user can pick an id; not-found gets
// a hint pointing at list.
func fatalResolve(kind, query string, err error) {
	var amb *resolver.AmbiguousError
	if errors.As(err, &amb) {
		if jsonOutput {
			outputJSONError(err, "ambiguous")
		}
		fmt.Fprintf(os.Stderr, "Error: %q matches multiple %ss:\n", query, kind)
		for _, c := range amb.Candidates {
			fmt.Fprintf(os.Stderr, "  %s  %s\n", c.ID, c.Name)
		}
		os.Exit(1)
	}
	if errors.Is(err, store.ErrNotFound) {
		if jsonOutput {
			outputJSONError(err, "not_found")
		}
		FatalErrorWithHint(fmt.Sprintf("no %s matches %q", kind, query), "Run 'strand list' to see what exists")
	}
	if jsonOutput {
		outputJSONError(err, "")
	}
	FatalError("%v", err)
}

// mustThread resolves query to a thread or exits.
func mustThread(query string) *types.Thread {
	t, err := resolver.Thread(rootCtx, db, query)
	if err != nil {
		fatalResolve("thread", query, err)
	}
	return t
}

// mustContainer resolves query to a container or exits.
func mustContainer(query string) *types.Container {
	c, err := resolver.Container(rootCtx, db, query)
	if err != nil {
		fatalResolve("container", query, err)
	}
	return c
}

// mustGroup resolves query to a group or exits.
func mustGroup(query string) *types.Group {
	g, err := resolver.Group(rootCtx, db, query)
	if err != nil {
		fatalResolve("group", query, err)
	}
	return g
}

// mustEntity resolves query across the shared thread+container space.
func mustEntity(query string) *types.Entity {
	e, err := resolver.Entity(rootCtx, db, query)
	if err != nil {
		fatalResolve("entity", query, err)
	}
	return e
}
