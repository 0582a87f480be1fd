package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeTaskSubmitted = "TASK_SUBMITTED"
	TypeTaskCompleted = "TASK_COMPLETED"
	TypeTaskFailed    = "TASK_FAILED"
)

// TaskSubmittedEvent fires when a research task has been accepted and queued.
type TaskSubmittedEvent struct {
	TaskId     uuid.UUID
	NotebookId uuid.UUID
	UserId     uuid.UUID
	Topic      string
	OccurredAt time.Time
}

func NewTaskSubmittedEvent(taskId, notebookId, userId uuid.UUID, topic string) TaskSubmittedEvent {
	return TaskSubmittedEvent{
		TaskId:     taskId,
		NotebookId: notebookId,
		UserId:     userId,
		Topic:      topic,
		OccurredAt: time.Now(),
	}
}

func (e TaskSubmittedEvent) EventType() string {
	return TypeTaskSubmitted
}

func (e TaskSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"task_id":     e.TaskId.String(),
		"notebook_id": e.NotebookId.String(),
		"user_id":     e.UserId.String(),
		"topic":       e.Topic,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TaskSubmittedEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TaskCompletedEvent fires when the research pipeline produced a document.
type TaskCompletedEvent struct {
	TaskId        uuid.UUID
	NotebookId    uuid.UUID
	UserId        uuid.UUID
	NotebookTitle string
	OccurredAt    time.Time
}

func NewTaskCompletedEvent(taskId, notebookId, userId uuid.UUID, notebookTitle string) TaskCompletedEvent {
	return TaskCompletedEvent{
		TaskId:        taskId,
		NotebookId:    notebookId,
		UserId:        userId,
		NotebookTitle: notebookTitle,
		OccurredAt:    time.Now(),
	}
}

func (e TaskCompletedEvent) EventType() string {
	return TypeTaskCompleted
}

func (e TaskCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"task_id":        e.TaskId.String(),
		"notebook_id":    e.NotebookId.String(),
		"user_id":        e.UserId.String(),
		"notebook_title": e.NotebookTitle,
		"occurred_at":    e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TaskCompletedEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TaskFailedEvent fires when the pipeline exhausted its retries.
type TaskFailedEvent struct {
	TaskId        uuid.UUID
	NotebookId    uuid.UUID
	UserId        uuid.UUID
	NotebookTitle string
	Reason        string
	OccurredAt    time.Time
}

func NewTaskFailedEvent(taskId, notebookId, userId uuid.UUID, notebookTitle, reason string) TaskFailedEvent {
	return TaskFailedEvent{
		TaskId:        taskId,
		NotebookId:    notebookId,
		UserId:        userId,
		NotebookTitle: notebookTitle,
		Reason:        reason,
		OccurredAt:    time.Now(),
	}
}

func (e TaskFailedEvent) EventType() string {
	return TypeTaskFailed
}

func (e TaskFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"task_id":        e.TaskId.String(),
		"notebook_id":    e.NotebookId.String(),
		"user_id":        e.UserId.String(),
		"notebook_title": e.NotebookTitle,
		"reason":         e.Reason,
		"occurred_at":    e.OccurredAt.Format(time.RFC3339),
	}
}

func (e TaskFailedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
