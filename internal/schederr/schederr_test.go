package schederr

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapIsMatchableWithErrorsIs(t *testing.T) {
	err := Wrap(ErrInvalidTask, "task 1: bad burst")
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("errors.Is(%v, ErrInvalidTask) = false", err)
	}
	if errors.Is(err, ErrSyncViolation) {
		t.Fatalf("errors.Is(%v, ErrSyncViolation) = true, want false", err)
	}
}

func TestWrapPreservesContextMessage(t *testing.T) {
	err := Wrap(ErrResourceExhausted, "context already spawned for task")
	if !strings.Contains(err.Error(), "context already spawned for task") {
		t.Fatalf("Error() = %q, missing context", err.Error())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidTask, ErrResourceExhausted, ErrCancelled,
		ErrTimeout, ErrDeadlockUnrecoverable, ErrSyncViolation,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Fatalf("sentinel %d (%v) should not match sentinel %d (%v)", i, a, j, b)
			}
		}
	}
}
