package unitofwork

import (
	"context"

	"decipher-research-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NotebookRepository() contract.NotebookRepository
	ProcessingStatusRepository() contract.ProcessingStatusRepository
	ResearchTaskRepository() contract.ResearchTaskRepository
	SourceRepository() contract.SourceRepository
	SourceEmbeddingRepository() contract.SourceEmbeddingRepository
}
