package web

import (
	"context"
	"testing"

	"github.com/JonMunkholm/gridview/internal/core"
)

func TestActionLog_HostRecords(t *testing.T) {
	l := NewActionLog(10)
	host := l.HostFor("view-1", "orders")

	ctx := core.WithActor(context.Background(), core.Actor{IP: "10.0.0.7", UserAgent: "curl/8"})
	row := core.Row{"id": core.Number(3)}

	if err := host.HandleRowAction(ctx, core.ActionDelete, row, 2); err != nil {
		t.Fatalf("HandleRowAction() error = %v", err)
	}

	got := l.Recent(0)
	if len(got) != 1 {
		t.Fatalf("Recent() = %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.ViewID != "view-1" || rec.Dataset != "orders" || rec.Action != core.ActionDelete || rec.Index != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Actor != (core.Actor{IP: "10.0.0.7", UserAgent: "curl/8"}) {
		t.Errorf("actor = %+v", rec.Actor)
	}
	if rec.Time.IsZero() {
		t.Error("record time not set")
	}
}

func TestActionLog_Bounded(t *testing.T) {
	l := NewActionLog(3)
	host := l.HostFor("v", "d")

	for i := 0; i < 5; i++ {
		_ = host.HandleRowAction(context.Background(), core.ActionView, core.Row{}, i)
	}

	got := l.Recent(0)
	if len(got) != 3 {
		t.Fatalf("Recent() = %d records, want 3", len(got))
	}
	for i, want := range []int{4, 3, 2} {
		if got[i].Index != want {
			t.Errorf("Recent()[%d].Index = %d, want %d", i, got[i].Index, want)
		}
	}

	if got := l.Recent(2); len(got) != 2 || got[0].Index != 4 {
		t.Errorf("Recent(2) = %+v, want the two newest", got)
	}
}

func TestNewActionLog_DefaultSize(t *testing.T) {
	if l := NewActionLog(0); l.limit != defaultActionLogSize {
		t.Errorf("limit = %d, want %d", l.limit, defaultActionLogSize)
	}
}
