package main

import "testing"

func TestRemoveTags(t *testing.T) {
	stored := []string{"food", "garden", "urgent"}

	got := removeTags(stored, []string{"Garden", "missing"})
	if len(got) != 2 || got[0] != "food" || got[1] != "urgent" {
		t.Errorf("removeTags = %v, want [food urgent]", got)
	}

	// The input is the store's live slice; filtering must not touch it.
	want := []string{"food", "garden", "urgent"}
	for i, tag := range want {
		if stored[i] != tag {
			t.Fatalf("input mutated: %v, want %v", stored, want)
		}
	}
}
