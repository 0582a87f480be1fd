package contract

import (
	"context"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// ProcessingStatusRepository maintains the at-most-one status row per notebook.
type ProcessingStatusRepository interface {
	// Upsert creates or replaces the status row for the notebook.
	Upsert(ctx context.Context, status *entity.NotebookProcessingStatus) error
	FindByNotebookId(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookProcessingStatus, error)
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
}
