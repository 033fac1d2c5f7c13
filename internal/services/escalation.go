package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"soultalk-backend/internal/models"
)

const crisisQueueKey = "queue:crisis-notification"

// AlertRegistry tracks which sessions already had a crisis notification.
// MarkIfFirst atomically records the session and reports whether this
// caller was first; the mark is irreversible for the session lifetime.
type AlertRegistry interface {
	MarkIfFirst(ctx context.Context, sessionID uuid.UUID) bool
}

type MemoryAlertRegistry struct {
	mu   sync.Mutex
	sent map[uuid.UUID]bool
}

func NewMemoryAlertRegistry() *MemoryAlertRegistry {
	return &MemoryAlertRegistry{sent: make(map[uuid.UUID]bool)}
}

func (r *MemoryAlertRegistry) MarkIfFirst(_ context.Context, sessionID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent[sessionID] {
		return false
	}
	r.sent[sessionID] = true
	return true
}

// RedisAlertRegistry is the production registry: SETNX gives the
// at-most-once guarantee across backend instances. The TTL bounds the
// key to a generous session lifetime.
type RedisAlertRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAlertRegistry(client *redis.Client) *RedisAlertRegistry {
	return &RedisAlertRegistry{client: client, ttl: 24 * time.Hour}
}

func (r *RedisAlertRegistry) MarkIfFirst(ctx context.Context, sessionID uuid.UUID) bool {
	ok, err := r.client.SetNX(ctx, "crisis_alert_sent:"+sessionID.String(), "1", r.ttl).Result()
	if err != nil {
		// If Redis is down we still escalate; a duplicate notification
		// is the safer failure.
		log.Printf("crisis registry: SETNX failed: %v", err)
		return true
	}
	return ok
}

// crisisWebhookPayload is the body posted to the notification endpoint.
type crisisWebhookPayload struct {
	UserName      string `json:"user_name"`
	ContactName   string `json:"contact_name"`
	ContactNumber string `json:"contact_number"`
	Message       string `json:"message"`
	LocationHint  string `json:"location_hint"`
}

// EscalationService performs the crisis-alert flow: at most one outbound
// notification per session, delivery decoupled from the chat turn, and a
// calm user-facing state regardless of delivery outcome. The session is
// marked sent before delivery is attempted; delivery failure is logged,
// never surfaced. That trade-off is deliberate product policy.
type EscalationService struct {
	registry       AlertRegistry
	queue          *redis.Client
	webhookURL     string
	geolocationURL string
	client         *http.Client
	email          *EmailService
	publisher      *EventPublisher
}

func NewEscalationService(
	registry AlertRegistry,
	queue *redis.Client,
	webhookURL string,
	geolocationURL string,
	email *EmailService,
	publisher *EventPublisher,
) *EscalationService {
	return &EscalationService{
		registry:       registry,
		queue:          queue,
		webhookURL:     webhookURL,
		geolocationURL: geolocationURL,
		client:         &http.Client{},
		email:          email,
		publisher:      publisher,
	}
}

// Trigger starts the escalation flow for a crisis-flagged turn. Returns
// true when this call initiated the session's single notification. With a
// queue configured the delivery happens on the worker pool; otherwise it
// runs inline.
func (s *EscalationService) Trigger(ctx context.Context, sessionID uuid.UUID, user *models.User) bool {
	if !s.registry.MarkIfFirst(ctx, sessionID) {
		return false
	}

	if s.queue != nil {
		job := models.Job{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      "crisis-notification",
			SessionID: sessionID,
			CreatedAt: time.Now().UTC(),
		}
		data, _ := json.Marshal(job)
		if err := s.queue.LPush(ctx, crisisQueueKey, string(data)).Err(); err == nil {
			return true
		}
		log.Printf("crisis escalation: failed to enqueue, delivering inline")
	}

	s.Deliver(ctx, sessionID, user)
	return true
}

// Deliver resolves a best-effort location hint and attempts the outbound
// notification. Called by the worker pool for queued jobs.
func (s *EscalationService) Deliver(ctx context.Context, sessionID uuid.UUID, user *models.User) {
	hint := s.lookupLocationHint(ctx)

	payload := crisisWebhookPayload{
		UserName:     user.FullName,
		Message:      fmt.Sprintf("SoulTalk crisis alert: %s may need immediate support.", user.FullName),
		LocationHint: hint,
	}
	if user.EmergencyContactName != nil {
		payload.ContactName = *user.EmergencyContactName
	}
	if user.EmergencyContactNumber != nil {
		payload.ContactNumber = *user.EmergencyContactNumber
	}

	if s.webhookURL != "" {
		if err := s.postWebhook(ctx, payload); err != nil {
			log.Printf("crisis escalation: webhook delivery failed for session %s: %v", sessionID, err)
		}
	}

	if s.email != nil && user.Email != "" {
		if err := s.email.SendCrisisSupportEmail(user.Email, user.FullName); err != nil {
			log.Printf("crisis escalation: support email failed for user %s: %v", user.ID, err)
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, user.ID, models.WSMessage{
			Type: "crisis_alert",
			Payload: models.CrisisAlertEvent{
				SessionID:    sessionID,
				ContactName:  payload.ContactName,
				LocationHint: hint,
				SentAt:       time.Now().UTC(),
			},
		})
	}
}

func (s *EscalationService) postWebhook(ctx context.Context, payload crisisWebhookPayload) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// lookupLocationHint asks the geolocation endpoint for a coarse
// "City, Country" hint. Times out fast; "unknown" is always acceptable.
func (s *EscalationService) lookupLocationHint(ctx context.Context) string {
	if s.geolocationURL == "" {
		return "unknown"
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.geolocationURL, nil)
	if err != nil {
		return "unknown"
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "unknown"
	}

	var info struct {
		City    string `json:"city"`
		Country string `json:"country_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "unknown"
	}

	switch {
	case info.City != "" && info.Country != "":
		return info.City + ", " + info.Country
	case info.Country != "":
		return info.Country
	default:
		return "unknown"
	}
}
