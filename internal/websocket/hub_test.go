package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"decipher-research-be/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error { return nil }

func addTestClient(h *Hub, userID uuid.UUID) *Client {
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 4)}
	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], client)
	h.mu.Unlock()
	return client
}

func expectNotification(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if envelope.Type != "notification" {
			t.Fatalf("expected notification envelope, got %q", envelope.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client received nothing")
	}
}

func TestHubSendWithoutRedis(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	userID := uuid.New()
	client := addTestClient(h, userID)

	h.Send(userID, dto.Notification{Type: "task_completed", Title: "Done"})

	expectNotification(t, client)
}

func TestHubSendFallsBackWhenRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	h := NewHub(rdb, nopLogger{})
	userID := uuid.New()
	client := addTestClient(h, userID)

	h.Send(userID, dto.Notification{Type: "task_failed", Title: "Failed"})

	expectNotification(t, client)
}

func TestHubSendSkipsOtherUsers(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	target := uuid.New()
	other := addTestClient(h, uuid.New())
	client := addTestClient(h, target)

	h.Send(target, dto.Notification{Type: "task_submitted"})

	expectNotification(t, client)
	select {
	case <-other.Send:
		t.Fatal("notification leaked to another user")
	default:
	}
}
