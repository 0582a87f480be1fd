package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"decipher-research-be/internal/config"
	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/contract"
	"decipher-research-be/internal/repository/memory"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/research"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type fakeTaskRepo struct {
	task    *entity.ResearchTask
	updates []entity.TaskStatusValue
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *entity.ResearchTask) error {
	f.task = task
	return nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *entity.ResearchTask) error {
	f.task = task
	f.updates = append(f.updates, task.Status)
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeTaskRepo) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return nil
}

func (f *fakeTaskRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchTask, error) {
	return f.task, nil
}

func (f *fakeTaskRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchTask, error) {
	if f.task == nil {
		return nil, nil
	}
	return []*entity.ResearchTask{f.task}, nil
}

func (f *fakeTaskRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if f.task == nil {
		return 0, nil
	}
	return 1, nil
}

type fakeNotebookRepo struct {
	notebook *entity.Notebook
	updated  int
}

func (f *fakeNotebookRepo) Create(ctx context.Context, notebook *entity.Notebook) error {
	f.notebook = notebook
	return nil
}

func (f *fakeNotebookRepo) Update(ctx context.Context, notebook *entity.Notebook) error {
	f.notebook = notebook
	f.updated++
	return nil
}

func (f *fakeNotebookRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeNotebookRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	return f.notebook, nil
}

func (f *fakeNotebookRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	if f.notebook == nil {
		return nil, nil
	}
	return []*entity.Notebook{f.notebook}, nil
}

func (f *fakeNotebookRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if f.notebook == nil {
		return 0, nil
	}
	return 1, nil
}

type fakeStatusRepo struct {
	upserts []*entity.NotebookProcessingStatus
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, status *entity.NotebookProcessingStatus) error {
	f.upserts = append(f.upserts, status)
	return nil
}

func (f *fakeStatusRepo) FindByNotebookId(ctx context.Context, notebookId uuid.UUID) (*entity.NotebookProcessingStatus, error) {
	if len(f.upserts) == 0 {
		return nil, nil
	}
	return f.upserts[len(f.upserts)-1], nil
}

func (f *fakeStatusRepo) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return nil
}

type fakeSourceRepo struct {
	created []*entity.Source
}

func (f *fakeSourceRepo) Create(ctx context.Context, source *entity.Source) error {
	f.created = append(f.created, source)
	return nil
}

func (f *fakeSourceRepo) CreateBulk(ctx context.Context, sources []*entity.Source) error {
	f.created = append(f.created, sources...)
	return nil
}

func (f *fakeSourceRepo) Update(ctx context.Context, source *entity.Source) error { return nil }

func (f *fakeSourceRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeSourceRepo) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return nil
}

func (f *fakeSourceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error) {
	return nil, nil
}

func (f *fakeSourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	return f.created, nil
}

func (f *fakeSourceRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeUnitOfWork struct {
	tasks     *fakeTaskRepo
	notebooks *fakeNotebookRepo
	statuses  *fakeStatusRepo
	sources   *fakeSourceRepo
	begins    int
	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		tasks:     &fakeTaskRepo{},
		notebooks: &fakeNotebookRepo{},
		statuses:  &fakeStatusRepo{},
		sources:   &fakeSourceRepo{},
	}
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { f.begins++; return nil }
func (f *fakeUnitOfWork) Commit() error                   { f.commits++; return nil }
func (f *fakeUnitOfWork) Rollback() error                 { f.rollbacks++; return nil }

func (f *fakeUnitOfWork) UserRepository() contract.UserRepository         { return nil }
func (f *fakeUnitOfWork) NotebookRepository() contract.NotebookRepository { return f.notebooks }
func (f *fakeUnitOfWork) ProcessingStatusRepository() contract.ProcessingStatusRepository {
	return f.statuses
}
func (f *fakeUnitOfWork) ResearchTaskRepository() contract.ResearchTaskRepository { return f.tasks }
func (f *fakeUnitOfWork) SourceRepository() contract.SourceRepository             { return f.sources }
func (f *fakeUnitOfWork) SourceEmbeddingRepository() contract.SourceEmbeddingRepository {
	return nil
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeRunner struct {
	failures int
	report   *research.Report
	calls    int
}

func (f *fakeRunner) Run(ctx context.Context, topic string) (*research.Report, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("pipeline blew up")
	}
	return f.report, nil
}

type fakeFetcher struct {
	visit *research.Visit
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, link research.Link) (*research.Visit, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.visit, nil
}

type fakeEmbedPublisher struct {
	payloads [][]byte
}

func (f *fakeEmbedPublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

type workerFixture struct {
	worker  *researchWorkerService
	uow     *fakeUnitOfWork
	runner  *fakeRunner
	fetcher *fakeFetcher
	embed   *fakeEmbedPublisher
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	uow := newFakeUnitOfWork()
	runner := &fakeRunner{}
	fetcher := &fakeFetcher{}
	embed := &fakeEmbedPublisher{}

	ws := NewResearchWorkerService(
		nil,
		"research_tasks",
		&fakeRepositoryFactory{uow: uow},
		runner,
		fetcher,
		embed,
		nil,
		memory.NewRunGuard(),
		nil,
		config.ResearchConfig{MaxRetries: 2},
	)

	return &workerFixture{
		worker:  ws.(*researchWorkerService),
		uow:     uow,
		runner:  runner,
		fetcher: fetcher,
		embed:   embed,
	}
}

func seedTask(fx *workerFixture, topic *string, sources []entity.ResearchSourceInput) *entity.ResearchTask {
	title := "Transistors"
	notebook := &entity.Notebook{Id: uuid.New(), UserId: uuid.New(), Title: &title}
	fx.uow.notebooks.notebook = notebook

	task := &entity.ResearchTask{
		Id:         uuid.New(),
		NotebookId: notebook.Id,
		UserId:     notebook.UserId,
		Topic:      topic,
		Sources:    sources,
		Status:     entity.TaskStatusPending,
	}
	fx.uow.tasks.task = task
	return task
}

func taskMessage(t *testing.T, taskId uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishResearchTaskMessage{TaskId: taskId})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload)
}

func strPtr(s string) *string { return &s }

func TestWorkerCompletesTask(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, strPtr("history of the transistor"), nil)
	fx.runner.report = &research.Report{
		Title:    "The Transistor",
		Document: "A long document.",
		Links:    []research.Link{{URL: "https://example.com", Title: "Example"}},
		Visits:   []research.Visit{{URL: "https://example.com", PageTitle: "Example", Content: "Body"}},
	}

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusCompleted {
		t.Fatalf("expected task completed, got %s", got)
	}
	if fx.uow.tasks.task.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}
	if fx.uow.tasks.task.Result == nil || fx.uow.tasks.task.Result.Document != "A long document." {
		t.Fatal("expected the composed document on the task result")
	}
	if len(fx.uow.tasks.updates) != 2 || fx.uow.tasks.updates[0] != entity.TaskStatusRunning {
		t.Fatalf("expected running then completed updates, got %v", fx.uow.tasks.updates)
	}
	if fx.uow.notebooks.notebook.Output == nil || *fx.uow.notebooks.notebook.Output != "A long document." {
		t.Fatal("expected notebook output to carry the document")
	}

	statuses := fx.uow.statuses.upserts
	if len(statuses) != 2 {
		t.Fatalf("expected 2 status upserts, got %d", len(statuses))
	}
	if statuses[0].Status != entity.ProcessingStatusProcessing || *statuses[0].Message != "Research task started" {
		t.Fatalf("unexpected first status: %s %v", statuses[0].Status, statuses[0].Message)
	}
	if statuses[1].Status != entity.ProcessingStatusProcessed || *statuses[1].Message != "Research completed successfully" {
		t.Fatalf("unexpected final status: %s %v", statuses[1].Status, statuses[1].Message)
	}

	if len(fx.uow.sources.created) != 1 {
		t.Fatalf("expected 1 scraped source stored, got %d", len(fx.uow.sources.created))
	}
	if len(fx.embed.payloads) != 1 {
		t.Fatalf("expected 1 embedding message, got %d", len(fx.embed.payloads))
	}
	if fx.uow.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", fx.uow.commits)
	}
}

func TestWorkerRetriesThenSucceeds(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, strPtr("history of the transistor"), nil)
	fx.runner.failures = 1
	fx.runner.report = &research.Report{Title: "T", Document: "D"}

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if fx.runner.calls != 2 {
		t.Fatalf("expected 2 pipeline attempts, got %d", fx.runner.calls)
	}
	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusCompleted {
		t.Fatalf("expected task completed after retry, got %s", got)
	}
}

func TestWorkerFailsAfterRetriesExhausted(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, strPtr("history of the transistor"), nil)
	fx.runner.failures = 10

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if fx.runner.calls != 2 {
		t.Fatalf("expected attempts capped at 2, got %d", fx.runner.calls)
	}
	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusFailed {
		t.Fatalf("expected task failed, got %s", got)
	}
	if fx.uow.tasks.task.Error == nil || fx.uow.tasks.task.FailedAt == nil {
		t.Fatal("expected error and FailedAt on the failed task")
	}

	statuses := fx.uow.statuses.upserts
	last := statuses[len(statuses)-1]
	if last.Status != entity.ProcessingStatusErrored || *last.Message != "Research failed. Please try again." {
		t.Fatalf("unexpected terminal status: %s %v", last.Status, last.Message)
	}
}

func TestWorkerIngestsManualSources(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, nil, []entity.ResearchSourceInput{
		{SourceType: entity.SourceTypeManual, SourceContent: strPtr("pasted notes")},
	})

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if fx.runner.calls != 0 {
		t.Fatalf("pipeline must not run for source-only tasks, got %d calls", fx.runner.calls)
	}
	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusCompleted {
		t.Fatalf("expected task completed, got %s", got)
	}
	if len(fx.uow.sources.created) != 1 || fx.uow.sources.created[0].Content != "pasted notes" {
		t.Fatalf("expected the manual source stored, got %v", fx.uow.sources.created)
	}
	if len(fx.embed.payloads) != 1 {
		t.Fatalf("expected 1 embedding message, got %d", len(fx.embed.payloads))
	}

	statuses := fx.uow.statuses.upserts
	last := statuses[len(statuses)-1]
	if last.Status != entity.ProcessingStatusProcessed {
		t.Fatalf("expected PROCESSED after ingestion, got %s", last.Status)
	}
}

func TestWorkerIngestsURLSources(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, nil, []entity.ResearchSourceInput{
		{SourceType: entity.SourceTypeURL, SourceURL: strPtr("https://example.com/page")},
	})
	fx.fetcher.visit = &research.Visit{
		URL:       "https://example.com/page",
		PageTitle: "Example Page",
		Content:   "converted markdown",
	}

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if fx.fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fx.fetcher.calls)
	}
	if len(fx.uow.sources.created) != 1 {
		t.Fatalf("expected 1 source stored, got %d", len(fx.uow.sources.created))
	}
	source := fx.uow.sources.created[0]
	if source.URL != "https://example.com/page" || source.PageTitle != "Example Page" || source.Content != "converted markdown" {
		t.Fatalf("unexpected stored source: %+v", source)
	}
	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusCompleted {
		t.Fatalf("expected task completed, got %s", got)
	}
}

func TestWorkerFailsWhenSourceFetchFails(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, nil, []entity.ResearchSourceInput{
		{SourceType: entity.SourceTypeURL, SourceURL: strPtr("https://example.com/dead")},
	})
	fx.fetcher.err = errors.New("status 404")

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if got := fx.uow.tasks.task.Status; got != entity.TaskStatusFailed {
		t.Fatalf("expected task failed, got %s", got)
	}
	if len(fx.uow.sources.created) != 0 {
		t.Fatal("no sources must be stored when a fetch fails")
	}

	statuses := fx.uow.statuses.upserts
	last := statuses[len(statuses)-1]
	if last.Status != entity.ProcessingStatusErrored {
		t.Fatalf("expected ERRORED, got %s", last.Status)
	}
}

func TestWorkerSkipsNonPendingTask(t *testing.T) {
	fx := newWorkerFixture(t)
	task := seedTask(fx, strPtr("history of the transistor"), nil)
	task.Status = entity.TaskStatusCompleted

	fx.worker.processMessage(context.Background(), taskMessage(t, task.Id))

	if len(fx.uow.tasks.updates) != 0 {
		t.Fatalf("expected no updates for a non-pending task, got %v", fx.uow.tasks.updates)
	}
	if len(fx.uow.statuses.upserts) != 0 {
		t.Fatalf("expected no status changes, got %d", len(fx.uow.statuses.upserts))
	}
}
