package ultrt

import (
	"errors"
	"testing"

	"schedlab/internal/schederr"
)

func TestSpawnDuplicateIDRejected(t *testing.T) {
	rt := NewRuntime(64, 0)
	entry := func(h *Handle, arg any) {}
	if _, err := rt.Spawn(1, entry, nil); err != nil {
		t.Fatalf("first Spawn: %v", err)
	}
	_, err := rt.Spawn(1, entry, nil)
	if !errors.Is(err, schederr.ErrInvalidTask) {
		t.Fatalf("duplicate Spawn = %v, want ErrInvalidTask", err)
	}
}

func TestSpawnResourceExhausted(t *testing.T) {
	rt := NewRuntime(64, 1)
	entry := func(h *Handle, arg any) {}
	if _, err := rt.Spawn(1, entry, nil); err != nil {
		t.Fatalf("first Spawn: %v", err)
	}
	_, err := rt.Spawn(2, entry, nil)
	if !errors.Is(err, schederr.ErrResourceExhausted) {
		t.Fatalf("over-capacity Spawn = %v, want ErrResourceExhausted", err)
	}
}

func TestSwitchToYieldThenFinish(t *testing.T) {
	rt := NewRuntime(64, 0)
	steps := 0
	h, err := rt.Spawn(1, func(h *Handle, arg any) {
		steps++
		h.YieldToScheduler()
		steps++
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if reason := rt.SwitchTo(h); reason != ReasonQuantum {
		t.Fatalf("first SwitchTo reason = %v, want ReasonQuantum", reason)
	}
	if steps != 1 {
		t.Fatalf("steps after first switch = %d, want 1", steps)
	}

	if reason := rt.SwitchTo(h); reason != ReasonFinished {
		t.Fatalf("second SwitchTo reason = %v, want ReasonFinished", reason)
	}
	if steps != 2 {
		t.Fatalf("steps after second switch = %d, want 2", steps)
	}
}

func TestSwitchToBlockedReason(t *testing.T) {
	rt := NewRuntime(64, 0)
	h, err := rt.Spawn(1, func(h *Handle, arg any) {
		h.Block()
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reason := rt.SwitchTo(h); reason != ReasonBlocked {
		t.Fatalf("SwitchTo reason = %v, want ReasonBlocked", reason)
	}
}

func TestHandleLookupAndDestroy(t *testing.T) {
	rt := NewRuntime(64, 0)
	entry := func(h *Handle, arg any) {}
	h, err := rt.Spawn(7, entry, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := rt.Handle(7)
	if !ok || got != h {
		t.Fatalf("Handle(7) = %v, %v, want the spawned handle", got, ok)
	}

	rt.Destroy(7)
	if _, ok := rt.Handle(7); ok {
		t.Fatal("Handle(7) should report false after Destroy")
	}
}

func TestArgThreadedThroughUnchanged(t *testing.T) {
	rt := NewRuntime(64, 0)
	var seen any
	h, err := rt.Spawn(1, func(h *Handle, arg any) {
		seen = arg
	}, "payload")
	if err != nil {
		t.Fatal(err)
	}
	rt.SwitchTo(h)
	if seen != "payload" {
		t.Fatalf("arg = %v, want %q", seen, "payload")
	}
}
