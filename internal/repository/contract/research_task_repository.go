package contract

import (
	"context"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ResearchTaskRepository interface {
	Create(ctx context.Context, task *entity.ResearchTask) error
	Update(ctx context.Context, task *entity.ResearchTask) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchTask, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchTask, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
