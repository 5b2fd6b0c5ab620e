package store

import (
	"time"

	"github.com/strandtools/strand/internal/types"
)

// ApplyThreadPatch shallow-merges the set fields of patch onto t and
// stamps UpdatedAt. Both backends funnel updates through here so a
// patch means the same thing regardless of where the record lives.
func ApplyThreadPatch(t *types.Thread, patch types.ThreadPatch) {
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Temperature != nil {
		t.Temperature = *patch.Temperature
	}
	if patch.Size != nil {
		t.Size = *patch.Size
	}
	if patch.Importance != nil {
		t.Importance = *patch.Importance
	}
	if patch.ParentID != nil {
		t.ParentID = *patch.ParentID
	}
	if patch.GroupID != nil {
		t.GroupID = *patch.GroupID
	}
	if patch.Tags != nil {
		t.Tags = types.NormalizeTags(*patch.Tags)
	}
	if patch.Dependencies != nil {
		t.Dependencies = *patch.Dependencies
	}
	t.UpdatedAt = time.Now().UTC()
}

// ApplyContainerPatch shallow-merges the set fields of patch onto c and
// stamps UpdatedAt.
func ApplyContainerPatch(c *types.Container, patch types.ContainerPatch) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ParentID != nil {
		c.ParentID = *patch.ParentID
	}
	if patch.GroupID != nil {
		c.GroupID = *patch.GroupID
	}
	if patch.Tags != nil {
		c.Tags = types.NormalizeTags(*patch.Tags)
	}
	c.UpdatedAt = time.Now().UTC()
}

// ApplyGroupPatch shallow-merges the set fields of patch onto g and
// stamps UpdatedAt.
func ApplyGroupPatch(g *types.Group, patch types.GroupPatch) {
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	g.UpdatedAt = time.Now().UTC()
}
