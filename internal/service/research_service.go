package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/memory"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/events"
	pktNats "decipher-research-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotebookNotFound       = errors.New("notebook not found")
	ErrTaskNotFound           = errors.New("research task not found")
	ErrResearchAlreadyRunning = errors.New("a research task is already running for this notebook")
	ErrNoTopicOrSources       = errors.New("either a topic or sources must be provided")
	ErrTopicWithSources       = errors.New("combined topic and sources research is not supported yet")
)

// taskStatusTTL bounds how stale a cached task status can get while the
// worker is still running.
const taskStatusTTL = 10 * time.Second

func taskStatusCacheKey(taskId uuid.UUID) string {
	return fmt.Sprintf("research:task_status:%s", taskId)
}

type IResearchService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitResearchRequest) (*dto.SubmitResearchResponse, error)
	GetTaskStatus(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskStatusResponse, error)
	ListTasks(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) (*dto.TaskListResponse, error)
}

type researchService struct {
	uowFactory     unitofwork.RepositoryFactory
	taskPublisher  IPublisherService
	eventPublisher *pktNats.Publisher
	runGuard       *memory.RunGuard
	redisClient    *redis.Client
}

func NewResearchService(
	uowFactory unitofwork.RepositoryFactory,
	taskPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	runGuard *memory.RunGuard,
	redisClient *redis.Client,
) IResearchService {
	return &researchService{
		uowFactory:     uowFactory,
		taskPublisher:  taskPublisher,
		eventPublisher: eventPublisher,
		runGuard:       runGuard,
		redisClient:    redisClient,
	}
}

func (s *researchService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitResearchRequest) (*dto.SubmitResearchResponse, error) {
	hasTopic := req.Topic != nil && *req.Topic != ""
	hasSources := len(req.Sources) > 0

	if !hasTopic && !hasSources {
		return nil, ErrNoTopicOrSources
	}
	if hasTopic && hasSources {
		return nil, ErrTopicWithSources
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Check ownership
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	if !s.runGuard.TryAcquire(req.NotebookId) {
		return nil, ErrResearchAlreadyRunning
	}

	sources := make([]entity.ResearchSourceInput, 0, len(req.Sources))
	for _, src := range req.Sources {
		sources = append(sources, entity.ResearchSourceInput{
			SourceType:    src.SourceType,
			SourceURL:     src.SourceURL,
			SourceContent: src.SourceContent,
		})
	}

	task := &entity.ResearchTask{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		UserId:     userId,
		Topic:      req.Topic,
		Sources:    sources,
		Status:     entity.TaskStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		s.runGuard.Release(req.NotebookId)
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ResearchTaskRepository().Create(ctx, task); err != nil {
		s.runGuard.Release(req.NotebookId)
		return nil, err
	}

	now := time.Now()
	queuedMessage := "Research task queued"
	if err := uow.ProcessingStatusRepository().Upsert(ctx, &entity.NotebookProcessingStatus{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		Status:     entity.ProcessingStatusQueued,
		Message:    &queuedMessage,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}); err != nil {
		s.runGuard.Release(req.NotebookId)
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		s.runGuard.Release(req.NotebookId)
		return nil, err
	}

	msgJson, _ := json.Marshal(dto.PublishResearchTaskMessage{TaskId: task.Id})
	if err := s.taskPublisher.Publish(ctx, msgJson); err != nil {
		s.runGuard.Release(req.NotebookId)
		return nil, err
	}

	if s.eventPublisher != nil {
		topic := ""
		if req.Topic != nil {
			topic = *req.Topic
		}
		event := events.NewTaskSubmittedEvent(task.Id, req.NotebookId, userId, topic)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// The task is already queued, losing the notification is not fatal.
			log.Printf("[WARN] Failed to publish submitted event for task %s: %v", task.Id, err)
		}
	}

	return &dto.SubmitResearchResponse{
		TaskId:     task.Id,
		NotebookId: req.NotebookId,
		Status:     string(entity.TaskStatusPending),
		Message:    "Research task submitted",
	}, nil
}

func (s *researchService) GetTaskStatus(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskStatusResponse, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, taskStatusCacheKey(taskId)).Result()
		if err == nil {
			var res dto.TaskStatusResponse
			if err := json.Unmarshal([]byte(cached), &res); err == nil {
				return &res, nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.ResearchTaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	res := &dto.TaskStatusResponse{
		TaskId:      task.Id,
		NotebookId:  task.NotebookId,
		Topic:       task.Topic,
		Sources:     task.Sources,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		Result:      task.Result,
		Error:       task.Error,
		CompletedAt: task.CompletedAt,
		FailedAt:    task.FailedAt,
	}

	if s.redisClient != nil {
		if payload, err := json.Marshal(res); err == nil {
			s.redisClient.Set(ctx, taskStatusCacheKey(taskId), payload, taskStatusTTL)
		}
	}

	return res, nil
}

func (s *researchService) ListTasks(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) (*dto.TaskListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	countSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if notebookId != nil {
		countSpecs = append(countSpecs, specification.ByNotebookID{NotebookID: *notebookId})
	}
	specs := append([]specification.Specification{}, countSpecs...)
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	tasks, err := uow.ResearchTaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	total, err := uow.ResearchTaskRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TaskListItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, &dto.TaskListItem{
			TaskId:      task.Id,
			NotebookId:  task.NotebookId,
			Topic:       task.Topic,
			Status:      string(task.Status),
			CreatedAt:   task.CreatedAt,
			CompletedAt: task.CompletedAt,
		})
	}

	return &dto.TaskListResponse{
		Tasks: items,
		Total: total,
	}, nil
}
