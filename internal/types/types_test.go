package types

import (
	"reflect"
	"testing"
)

func validThread() *Thread {
	t := &Thread{Name: "Test thread"}
	t.SetDefaults()
	return t
}

func TestThreadValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thread)
		wantErr string // empty means valid
	}{
		{"defaults are valid", func(th *Thread) {}, ""},
		{"empty name", func(th *Thread) { th.Name = "" }, "name"},
		{"name too long", func(th *Thread) {
			for len(th.Name) <= 200 {
				th.Name += "x"
			}
		}, "name"},
		{"importance too low", func(th *Thread) { th.Importance = 0 }, "importance"},
		{"importance too high", func(th *Thread) { th.Importance = 6 }, "importance"},
		{"bad status", func(th *Thread) { th.Status = "snoozing" }, "status"},
		{"bad temperature", func(th *Thread) { th.Temperature = "lukewarm" }, "temperature"},
		{"bad size", func(th *Thread) { th.Size = "gigantic" }, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := validThread()
			tt.mutate(th)
			err := th.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %T(%v), want *ValidationError", err, err)
			}
			if ve.Field != tt.wantErr {
				t.Errorf("Validate() field = %q, want %q", ve.Field, tt.wantErr)
			}
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusPaused, true},
		{StatusPaused, StatusStopped, true},
		{StatusStopped, StatusActive, true},
		{StatusActive, StatusCompleted, true},
		{StatusPaused, StatusArchived, true},
		{StatusCompleted, StatusArchived, true},
		{StatusCompleted, StatusActive, false},
		{StatusArchived, StatusActive, true},
		{StatusArchived, StatusPaused, false},
		{StatusArchived, StatusCompleted, false},
		{StatusCompleted, StatusPaused, false},
		{StatusActive, StatusActive, false},
		{StatusActive, Status("snoozing"), false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTemperatureRankOrdering(t *testing.T) {
	hotToCold := []Temperature{TempHot, TempWarm, TempTepid, TempCold, TempFreezing, TempFrozen}
	for i := 1; i < len(hotToCold); i++ {
		if hotToCold[i-1].Rank() <= hotToCold[i].Rank() {
			t.Errorf("Rank(%s)=%d not above Rank(%s)=%d",
				hotToCold[i-1], hotToCold[i-1].Rank(), hotToCold[i], hotToCold[i].Rank())
		}
	}
	if Temperature("lukewarm").Rank() != -1 {
		t.Errorf("unknown temperature rank = %d, want -1", Temperature("lukewarm").Rank())
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"Work", "work", " WORK "}, []string{"work"}},
		{[]string{"zeta", "alpha", "midway"}, []string{"alpha", "midway", "zeta"}},
		{[]string{"", "  ", "ok"}, []string{"ok"}},
	}
	for _, tt := range tests {
		if got := NormalizeTags(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeTags(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEntityAccessors(t *testing.T) {
	th := &Thread{ID: "th-aaa", Name: "A", ParentID: "ct-bbb", GroupID: "gr-ccc", Tags: []string{"x"}}
	e := ThreadEntity(th)
	if e.Kind != KindThread || e.ID() != "th-aaa" || e.Name() != "A" ||
		e.ParentID() != "ct-bbb" || e.GroupID() != "gr-ccc" || len(e.Tags()) != 1 {
		t.Errorf("thread entity accessors wrong: %+v", e)
	}

	c := &Container{ID: "ct-ddd", Name: "B"}
	e = ContainerEntity(c)
	if e.Kind != KindContainer || e.ID() != "ct-ddd" || e.ParentID() != "" {
		t.Errorf("container entity accessors wrong: %+v", e)
	}
}
