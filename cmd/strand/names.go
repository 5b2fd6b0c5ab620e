package main

import (
	"errors"
	"fmt"

	"github.com/strandtools/strand/internal/store"
)

// Name uniqueness is advisory: the engine allows duplicates, the command
// layer refuses them unless forced so fuzzy resolution stays useful.
// selfID exempts the entity being renamed to its current name.

func duplicateThreadName(name, selfID string, force bool) error {
	existing, err := db.ThreadByName(rootCtx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID || force {
		return nil
	}
	return fmt.Errorf("a thread named %q already exists (%s)", existing.Name, existing.ID)
}

func duplicateContainerName(name, selfID string, force bool) error {
	existing, err := db.ContainerByName(rootCtx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID || force {
		return nil
	}
	return fmt.Errorf("a container named %q already exists (%s)", existing.Name, existing.ID)
}

func guardThreadName(name, selfID string, force bool) {
	if err := duplicateThreadName(name, selfID, force); err != nil {
		FatalErrorWithHint(err.Error(), "Use --force to take the duplicate name anyway")
	}
}

func guardContainerName(name, selfID string, force bool) {
	if err := duplicateContainerName(name, selfID, force); err != nil {
		FatalErrorWithHint(err.Error(), "Use --force to take the duplicate name anyway")
	}
}
