package service

import (
	"context"
	"testing"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"

	"github.com/google/uuid"
)

func TestNotebookCreateStartsQueued(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewNotebookService(&fakeRepositoryFactory{uow: uow})

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNotebookRequest{
		Title: strPtr("Transistor history"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.Id == uuid.Nil {
		t.Fatal("expected a notebook id")
	}
	if uow.notebooks.notebook == nil || uow.notebooks.notebook.Id != res.Id {
		t.Fatal("expected the notebook to be persisted")
	}

	if len(uow.statuses.upserts) != 1 {
		t.Fatalf("expected 1 status row, got %d", len(uow.statuses.upserts))
	}
	status := uow.statuses.upserts[0]
	if status.NotebookId != res.Id {
		t.Fatal("status row must reference the new notebook")
	}
	if status.Status != entity.ProcessingStatusQueued {
		t.Fatalf("expected QUEUED, got %s", status.Status)
	}
	if uow.commits != 1 {
		t.Fatalf("expected notebook and status committed together, got %d commits", uow.commits)
	}
}
