package main

import (
	"context"
	"testing"

	"github.com/strandtools/strand/internal/store"
	"github.com/strandtools/strand/internal/types"
)

func seedNameStore(t *testing.T) {
	t.Helper()
	db = store.Open(t.TempDir(), nil)
	rootCtx = context.Background()
	if err := db.CreateThread(rootCtx, &types.Thread{ID: "th-aaaaa", Name: "Taxes"}); err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if err := db.CreateContainer(rootCtx, &types.Container{ID: "ct-aaaaa", Name: "House"}); err != nil {
		t.Fatalf("create container: %v", err)
	}
}

func TestDuplicateThreadName(t *testing.T) {
	seedNameStore(t)

	tests := []struct {
		name    string
		query   string
		selfID  string
		force   bool
		wantDup bool
	}{
		{"fresh name", "Garden", "", false, false},
		{"duplicate refused", "Taxes", "", false, true},
		{"duplicate folds case", "taxes", "", false, true},
		{"forced through", "Taxes", "", true, false},
		{"rename to own name", "Taxes", "th-aaaaa", false, false},
		{"rename collides with other", "Taxes", "th-zzzzz", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := duplicateThreadName(tt.query, tt.selfID, tt.force)
			if (err != nil) != tt.wantDup {
				t.Errorf("duplicateThreadName(%q, %q, %v) = %v, wantDup %v",
					tt.query, tt.selfID, tt.force, err, tt.wantDup)
			}
		})
	}
}

func TestDuplicateContainerName(t *testing.T) {
	seedNameStore(t)

	if err := duplicateContainerName("House", "", false); err == nil {
		t.Error("duplicate container name passed, want refusal")
	}
	if err := duplicateContainerName("House", "ct-aaaaa", false); err != nil {
		t.Errorf("rename to own name refused: %v", err)
	}
	if err := duplicateContainerName("Shed", "", false); err != nil {
		t.Errorf("fresh container name refused: %v", err)
	}
	// Thread names do not collide with container names; the advisory
	// check is per kind even though ids share one space.
	if err := duplicateContainerName("Taxes", "", false); err != nil {
		t.Errorf("thread name blocked a container: %v", err)
	}
}
