package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"decipher-research-be/internal/config"
	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/memory"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/events"
	pktNats "decipher-research-be/pkg/nats"
	"decipher-research-be/pkg/research"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Status messages shown on the notebook card during a research run.
const (
	statusMsgStarted   = "Research task started"
	statusMsgCompleted = "Research completed successfully"
	statusMsgFailed    = "Research failed. Please try again."
)

type IResearchWorkerService interface {
	Consume(ctx context.Context) error
}

// ResearchRunner runs the full topic research flow.
type ResearchRunner interface {
	Run(ctx context.Context, topic string) (*research.Report, error)
}

// LinkFetcher downloads one page and converts it to markdown.
type LinkFetcher interface {
	Fetch(ctx context.Context, link research.Link) (*research.Visit, error)
}

// researchWorkerService picks up submitted tasks and runs the research
// pipeline for them, driving the task and notebook status rows through
// their lifecycle.
type researchWorkerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	uowFactory      unitofwork.RepositoryFactory
	pipeline        ResearchRunner
	fetcher         LinkFetcher
	embedPublisher  IPublisherService
	eventPublisher  *pktNats.Publisher
	runGuard        *memory.RunGuard
	redisClient     *redis.Client
	maxRetries      int
	pipelineTimeout time.Duration
}

func NewResearchWorkerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	pipeline ResearchRunner,
	fetcher LinkFetcher,
	embedPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	runGuard *memory.RunGuard,
	redisClient *redis.Client,
	researchCfg config.ResearchConfig,
) IResearchWorkerService {
	maxRetries := researchCfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &researchWorkerService{
		pubSub:          pubSub,
		topicName:       topicName,
		uowFactory:      uowFactory,
		pipeline:        pipeline,
		fetcher:         fetcher,
		embedPublisher:  embedPublisher,
		eventPublisher:  eventPublisher,
		runGuard:        runGuard,
		redisClient:     redisClient,
		maxRetries:      maxRetries,
		pipelineTimeout: 20 * time.Minute,
	}
}

func (ws *researchWorkerService) Consume(ctx context.Context) error {
	messages, err := ws.pubSub.Subscribe(ctx, ws.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ws.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ws *researchWorkerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishResearchTaskMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal research task message: %v", err)
		msg.Ack()
		return
	}

	uow := ws.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.ResearchTaskRepository().FindOne(ctx, specification.ByID{ID: payload.TaskId})
	if err != nil {
		log.Printf("[ERROR] Failed to load task %s: %v", payload.TaskId, err)
		msg.Nack()
		return
	}
	if task == nil {
		log.Printf("[ERROR] Research task not found: %s", payload.TaskId)
		msg.Ack()
		return
	}
	if task.Status != entity.TaskStatusPending {
		log.Printf("[WARN] Task %s already in state %s, skipping", task.Id, task.Status)
		msg.Ack()
		return
	}

	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: task.NotebookId})
	if err != nil || notebook == nil {
		log.Printf("[ERROR] Notebook %s missing for task %s: %v", task.NotebookId, task.Id, err)
		ws.failTask(ctx, uow, task, notebook, "notebook no longer exists")
		msg.Ack()
		return
	}

	defer ws.runGuard.Release(task.NotebookId)

	ws.runTask(ctx, uow, task, notebook)
	msg.Ack()
}

func (ws *researchWorkerService) runTask(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.ResearchTask, notebook *entity.Notebook) {
	task.Status = entity.TaskStatusRunning
	if err := uow.ResearchTaskRepository().Update(ctx, task); err != nil {
		log.Printf("[ERROR] Failed to mark task %s running: %v", task.Id, err)
		return
	}
	ws.updateNotebookStatus(ctx, uow, task.NotebookId, entity.ProcessingStatusProcessing, statusMsgStarted)
	ws.invalidateStatusCache(ctx, task.Id)

	if task.Topic == nil || *task.Topic == "" {
		// No topic means nothing to compose. The attached sources still
		// get stored and queued for embedding.
		ws.ingestSources(ctx, uow, task, notebook)
		return
	}
	topic := *task.Topic

	var report *research.Report
	var lastErr error

	// maxRetries counts total attempts, matching RESEARCH_MAX_RETRIES.
	for attempt := 0; attempt < ws.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[WARN] Task %s failed (attempt %d/%d): %v", task.Id, attempt, ws.maxRetries, lastErr)
		}

		runCtx, cancel := context.WithTimeout(ctx, ws.pipelineTimeout)
		report, lastErr = ws.pipeline.Run(runCtx, topic)
		cancel()

		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		log.Printf("[ERROR] Task %s failed after %d attempts: %v", task.Id, ws.maxRetries, lastErr)
		ws.failTask(ctx, uow, task, notebook, lastErr.Error())
		return
	}

	ws.completeTask(ctx, uow, task, notebook, topic, report)
}

func (ws *researchWorkerService) completeTask(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.ResearchTask, notebook *entity.Notebook, topic string, report *research.Report) {
	now := time.Now()

	links := make([]entity.WebLink, 0, len(report.Links))
	for _, link := range report.Links {
		links = append(links, entity.WebLink{URL: link.URL, Title: link.Title})
	}
	visits := make([]entity.WebVisit, 0, len(report.Visits))
	for _, visit := range report.Visits {
		visits = append(visits, entity.WebVisit{URL: visit.URL, PageTitle: visit.PageTitle, Content: visit.Content})
	}

	task.Status = entity.TaskStatusCompleted
	task.Result = &entity.TaskResult{
		Title:    report.Title,
		Document: report.Document,
		Links:    links,
		Scraped:  visits,
	}
	task.CompletedAt = &now

	notebook.Output = &report.Document
	notebook.Topic = &topic
	if notebook.Title == nil || *notebook.Title == "" {
		notebook.Title = &report.Title
	}
	notebook.UpdatedAt = &now

	sources := make([]*entity.Source, 0, len(visits))
	for _, visit := range visits {
		sources = append(sources, &entity.Source{
			Id:         uuid.New(),
			NotebookId: notebook.Id,
			URL:        visit.URL,
			PageTitle:  visit.PageTitle,
			Content:    visit.Content,
			CreatedAt:  now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin completion transaction for task %s: %v", task.Id, err)
		return
	}
	defer uow.Rollback()

	if err := uow.ResearchTaskRepository().Update(ctx, task); err != nil {
		log.Printf("[ERROR] Failed to save task result %s: %v", task.Id, err)
		return
	}
	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		log.Printf("[ERROR] Failed to save notebook output %s: %v", notebook.Id, err)
		return
	}
	if len(sources) > 0 {
		if err := uow.SourceRepository().CreateBulk(ctx, sources); err != nil {
			log.Printf("[ERROR] Failed to save sources for notebook %s: %v", notebook.Id, err)
			return
		}
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit completion for task %s: %v", task.Id, err)
		return
	}

	ws.updateNotebookStatus(ctx, uow, task.NotebookId, entity.ProcessingStatusProcessed, statusMsgCompleted)
	ws.invalidateStatusCache(ctx, task.Id)

	// Index the scraped sources in the background.
	for _, source := range sources {
		msgJson, _ := json.Marshal(dto.PublishEmbedSourceMessage{SourceId: source.Id})
		if err := ws.embedPublisher.Publish(ctx, msgJson); err != nil {
			log.Printf("[WARN] Failed to queue embedding for source %s: %v", source.Id, err)
		}
	}

	if ws.eventPublisher != nil {
		title := report.Title
		if notebook.Title != nil && *notebook.Title != "" {
			title = *notebook.Title
		}
		event := events.NewTaskCompletedEvent(task.Id, notebook.Id, task.UserId, title)
		if err := ws.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish completion event for task %s: %v", task.Id, err)
		}
	}

	log.Printf("[SUCCESS] Task %s completed, %d sources stored", task.Id, len(sources))
}

// ingestSources handles tasks submitted with sources instead of a topic.
// Each source is materialized as a Source row and queued for embedding,
// then the task completes without a composed document.
func (ws *researchWorkerService) ingestSources(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.ResearchTask, notebook *entity.Notebook) {
	if len(task.Sources) == 0 {
		ws.failTask(ctx, uow, task, notebook, "research task has neither topic nor sources")
		return
	}

	now := time.Now()
	sources := make([]*entity.Source, 0, len(task.Sources))
	for _, input := range task.Sources {
		source := &entity.Source{
			Id:         uuid.New(),
			NotebookId: task.NotebookId,
			CreatedAt:  now,
		}
		switch input.SourceType {
		case entity.SourceTypeURL:
			if input.SourceURL == nil || *input.SourceURL == "" {
				ws.failTask(ctx, uow, task, notebook, "source_url is required for URL sources")
				return
			}
			visit, err := ws.fetcher.Fetch(ctx, research.Link{URL: *input.SourceURL})
			if err != nil {
				ws.failTask(ctx, uow, task, notebook, err.Error())
				return
			}
			source.URL = visit.URL
			source.PageTitle = visit.PageTitle
			source.Content = visit.Content
		default:
			if input.SourceContent == nil || *input.SourceContent == "" {
				ws.failTask(ctx, uow, task, notebook, "source content is required for manual sources")
				return
			}
			source.Content = *input.SourceContent
			if input.SourceURL != nil {
				source.URL = *input.SourceURL
			}
		}
		sources = append(sources, source)
	}

	task.Status = entity.TaskStatusCompleted
	task.CompletedAt = &now

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin ingestion transaction for task %s: %v", task.Id, err)
		return
	}
	defer uow.Rollback()

	if err := uow.ResearchTaskRepository().Update(ctx, task); err != nil {
		log.Printf("[ERROR] Failed to save task %s: %v", task.Id, err)
		return
	}
	if err := uow.SourceRepository().CreateBulk(ctx, sources); err != nil {
		log.Printf("[ERROR] Failed to save sources for notebook %s: %v", task.NotebookId, err)
		return
	}
	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit ingestion for task %s: %v", task.Id, err)
		return
	}

	ws.updateNotebookStatus(ctx, uow, task.NotebookId, entity.ProcessingStatusProcessed, statusMsgCompleted)
	ws.invalidateStatusCache(ctx, task.Id)

	for _, source := range sources {
		msgJson, _ := json.Marshal(dto.PublishEmbedSourceMessage{SourceId: source.Id})
		if err := ws.embedPublisher.Publish(ctx, msgJson); err != nil {
			log.Printf("[WARN] Failed to queue embedding for source %s: %v", source.Id, err)
		}
	}

	if ws.eventPublisher != nil {
		title := ""
		if notebook.Title != nil {
			title = *notebook.Title
		}
		event := events.NewTaskCompletedEvent(task.Id, notebook.Id, task.UserId, title)
		if err := ws.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish completion event for task %s: %v", task.Id, err)
		}
	}

	log.Printf("[SUCCESS] Task %s ingested %d sources", task.Id, len(sources))
}

func (ws *researchWorkerService) failTask(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.ResearchTask, notebook *entity.Notebook, reason string) {
	now := time.Now()
	task.Status = entity.TaskStatusFailed
	task.Error = &reason
	task.FailedAt = &now

	if err := uow.ResearchTaskRepository().Update(ctx, task); err != nil {
		log.Printf("[ERROR] Failed to mark task %s failed: %v", task.Id, err)
	}

	ws.updateNotebookStatus(ctx, uow, task.NotebookId, entity.ProcessingStatusErrored, statusMsgFailed)
	ws.invalidateStatusCache(ctx, task.Id)

	if ws.eventPublisher != nil {
		title := ""
		if notebook != nil && notebook.Title != nil {
			title = *notebook.Title
		}
		event := events.NewTaskFailedEvent(task.Id, task.NotebookId, task.UserId, title, reason)
		if err := ws.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish failure event for task %s: %v", task.Id, err)
		}
	}
}

func (ws *researchWorkerService) updateNotebookStatus(ctx context.Context, uow unitofwork.UnitOfWork, notebookId uuid.UUID, status entity.ProcessingStatusValue, message string) {
	now := time.Now()
	err := uow.ProcessingStatusRepository().Upsert(ctx, &entity.NotebookProcessingStatus{
		Id:         uuid.New(),
		NotebookId: notebookId,
		Status:     status,
		Message:    &message,
		CreatedAt:  now,
		UpdatedAt:  &now,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to update notebook %s status to %s: %v", notebookId, status, err)
	}
}

func (ws *researchWorkerService) invalidateStatusCache(ctx context.Context, taskId uuid.UUID) {
	if ws.redisClient == nil {
		return
	}
	ws.redisClient.Del(ctx, taskStatusCacheKey(taskId))
}
