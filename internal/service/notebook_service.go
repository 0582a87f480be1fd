package service

import (
	"context"
	"time"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/internal/view"

	"github.com/google/uuid"
)

type INotebookService interface {
	GetAll(ctx context.Context, userId uuid.UUID) (*dto.GetAllNotebookResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	GetCard(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*view.NotebookCard, error)
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotebookService(uowFactory unitofwork.RepositoryFactory) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
	}
}

func (c *notebookService) GetAll(ctx context.Context, userId uuid.UUID) (*dto.GetAllNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.WithProcessingStatus{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	return &dto.GetAllNotebookResponse{
		Notebooks: view.BuildCards(notebooks),
		Total:     len(notebooks),
	}, nil
}

func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	notebook := entity.Notebook{
		Id:        uuid.New(),
		Title:     req.Title,
		Topic:     req.Topic,
		UserId:    userId,
		CreatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.NotebookRepository().Create(ctx, &notebook); err != nil {
		return nil, err
	}

	// New notebooks start in QUEUED, the same state the card projects
	// when no status row exists yet.
	if err := uow.ProcessingStatusRepository().Upsert(ctx, &entity.NotebookProcessingStatus{
		Id:         uuid.New(),
		NotebookId: notebook.Id,
		Status:     entity.ProcessingStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateNotebookResponse{
		Id: notebook.Id,
	}, nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.WithProcessingStatus{},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	res := dto.ShowNotebookResponse{
		Id:        notebook.Id,
		Title:     notebook.Title,
		Topic:     notebook.Topic,
		Output:    notebook.Output,
		Status:    view.ProjectStatus(entity.ProcessingStatusQueued),
		CreatedAt: notebook.CreatedAt,
		UpdatedAt: notebook.UpdatedAt,
	}
	if ps := notebook.ProcessingStatus; ps != nil {
		res.Status = view.ProjectStatus(ps.Status)
		res.StatusMessage = ps.Message
	}

	return &res, nil
}

func (c *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Fetch first to check ownership
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	now := time.Now()
	if req.Title != nil {
		notebook.Title = req.Title
	}
	if req.Topic != nil {
		notebook.Topic = req.Topic
	}
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return &dto.UpdateNotebookResponse{
		Id: notebook.Id,
	}, nil
}

func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Check ownership
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if notebook == nil {
		return ErrNotebookNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Embeddings go first, they reference sources.
	if err := uow.SourceEmbeddingRepository().DeleteByNotebookId(ctx, id); err != nil {
		return err
	}
	if err := uow.SourceRepository().DeleteByNotebookId(ctx, id); err != nil {
		return err
	}
	if err := uow.ResearchTaskRepository().DeleteByNotebookId(ctx, id); err != nil {
		return err
	}
	if err := uow.ProcessingStatusRepository().DeleteByNotebookId(ctx, id); err != nil {
		return err
	}
	if err := uow.NotebookRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *notebookService) GetCard(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*view.NotebookCard, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.WithProcessingStatus{},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	return view.BuildCard(notebook), nil
}
