package memory

import (
	"testing"

	"github.com/google/uuid"
)

func TestRunGuardAcquireRelease(t *testing.T) {
	guard := NewRunGuard()
	notebookId := uuid.New()

	if !guard.TryAcquire(notebookId) {
		t.Fatal("expected first acquire to succeed")
	}
	if guard.TryAcquire(notebookId) {
		t.Fatal("expected second acquire on same notebook to fail")
	}
	if !guard.IsRunning(notebookId) {
		t.Fatal("expected notebook to be marked running")
	}

	guard.Release(notebookId)

	if guard.IsRunning(notebookId) {
		t.Fatal("expected notebook to be clear after release")
	}
	if !guard.TryAcquire(notebookId) {
		t.Fatal("expected acquire after release to succeed")
	}
}

func TestRunGuardIndependentNotebooks(t *testing.T) {
	guard := NewRunGuard()
	a, b := uuid.New(), uuid.New()

	if !guard.TryAcquire(a) {
		t.Fatal("expected acquire on a to succeed")
	}
	if !guard.TryAcquire(b) {
		t.Fatal("expected acquire on b to succeed despite a being held")
	}

	guard.Release(a)
	if guard.IsRunning(b) != true {
		t.Fatal("releasing a must not release b")
	}
}
