package service

import (
	"context"
	"fmt"

	"decipher-research-be/internal/dto"
	"decipher-research-be/internal/pkg/logger"
	"decipher-research-be/internal/pkg/mailer"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/events"
	pktNats "decipher-research-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.Notification)
}

// NotificationService turns task lifecycle events from the bus into
// websocket pushes and, for terminal states, emails.
type NotificationService struct {
	uowFactory   unitofwork.RepositoryFactory
	subscriber   *pktNats.Subscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	clientURL    string
	logger       logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	clientURL string,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory:   uowFactory,
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		clientURL:    clientURL,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	payload := event.Payload()
	userId := parseUUID(payload, "user_id")
	notebookId := parseUUID(payload, "notebook_id")
	taskId := parseUUID(payload, "task_id")
	if userId == uuid.Nil {
		s.logger.Warn("NotificationService", "Event without user_id, skipping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	title, _ := payload["notebook_title"].(string)

	var notification dto.Notification
	switch event.EventType() {
	case events.TypeTaskSubmitted:
		topic, _ := payload["topic"].(string)
		notification = dto.Notification{
			Type:  "task_submitted",
			Title: "Research queued",
			Body:  fmt.Sprintf("Research on %q has been queued.", topic),
		}
	case events.TypeTaskCompleted:
		notification = dto.Notification{
			Type:  "task_completed",
			Title: "Research ready",
			Body:  fmt.Sprintf("Your notebook %q is ready.", title),
		}
	case events.TypeTaskFailed:
		notification = dto.Notification{
			Type:  "task_failed",
			Title: "Research failed",
			Body:  "Your research task failed. Please try again.",
		}
	default:
		// Unknown event type, nothing to deliver.
		return nil
	}

	notification.NotebookId = notebookId
	notification.TaskId = taskId
	notification.CreatedAt = event.Timestamp()

	if s.delivery != nil {
		s.delivery.Send(userId, notification)
	}

	// Terminal states also trigger an email.
	switch event.EventType() {
	case events.TypeTaskCompleted:
		s.sendEmail(ctx, userId, title, notebookId, true)
	case events.TypeTaskFailed:
		s.sendEmail(ctx, userId, title, notebookId, false)
	}

	return nil
}

func (s *NotificationService) sendEmail(ctx context.Context, userId uuid.UUID, notebookTitle string, notebookId uuid.UUID, completed bool) {
	if s.emailService == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		s.logger.Warn("NotificationService", "Could not resolve user for email", map[string]interface{}{"user_id": userId, "error": err})
		return
	}

	if completed {
		notebookURL := fmt.Sprintf("%s/notebooks/%s", s.clientURL, notebookId)
		err = s.emailService.SendResearchCompleted(user.Email, notebookTitle, notebookURL)
	} else {
		err = s.emailService.SendResearchFailed(user.Email, notebookTitle)
	}
	if err != nil {
		s.logger.Error("NotificationService", "Failed to send email", map[string]interface{}{"user_id": userId, "error": err})
	}
}

func parseUUID(payload map[string]interface{}, key string) uuid.UUID {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
