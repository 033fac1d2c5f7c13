package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"soultalk-backend/internal/models"
	"soultalk-backend/internal/repository"
	"soultalk-backend/internal/services"
)

// Pool drains the background job queues. Crisis notifications and chat
// summaries both run here so a chat turn never waits on an outbound call.
type Pool struct {
	redis       *redis.Client
	gemini      *services.GeminiService
	escalation  *services.EscalationService
	publisher   *services.EventPublisher
	userRepo    *repository.UserRepo
	chatRepo    *repository.ChatRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	escalation *services.EscalationService,
	publisher *services.EventPublisher,
	userRepo *repository.UserRepo,
	chatRepo *repository.ChatRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		gemini:      gemini,
		escalation:  escalation,
		publisher:   publisher,
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:crisis-notification",
		"queue:chat-summary",
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock so only one worker runs the job
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		var processErr error
		switch job.Type {
		case "crisis-notification":
			processErr = p.processCrisisNotification(ctx, &job)
		case "chat-summary":
			processErr = p.processChatSummary(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			// Crisis jobs are never retried: the session is already
			// marked sent, and a late duplicate alert is worse than a
			// logged failure.
			log.Printf("Worker %d: job %s failed: %v", id, job.ID, processErr)
		} else {
			log.Printf("Worker %d: job %s completed", id, job.ID)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processCrisisNotification(ctx context.Context, job *models.Job) error {
	user, err := p.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user for crisis notification: %w", err)
	}

	p.escalation.Deliver(ctx, job.SessionID, user)
	return nil
}

func (p *Pool) processChatSummary(ctx context.Context, job *models.Job) error {
	turns, err := p.chatRepo.GetSessionHistory(ctx, job.UserID, job.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}

	if len(turns) == 0 {
		return fmt.Errorf("session %s has no messages to summarize", job.SessionID)
	}

	conversation := make([]models.ChatTurn, 0, len(turns))
	for _, turn := range turns {
		conversation = append(conversation, *turn)
	}

	summary := p.gemini.SummarizeConversation(ctx, conversation)

	p.publisher.Publish(ctx, job.UserID, models.WSMessage{
		Type: "summary_ready",
		Payload: models.SummaryReadyEvent{
			JobID:     job.ID,
			SessionID: job.SessionID,
			Summary:   summary,
		},
	})

	return nil
}
