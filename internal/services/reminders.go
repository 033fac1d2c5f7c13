package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"soultalk-backend/internal/repository"
)

const (
	checkInLastSentPrefix = "checkin_last_sent:"
	checkInInterval       = 72 * time.Hour
	reminderPollInterval  = 1 * time.Hour
)

// CheckInScheduler emails users who haven't journaled in a while. The
// last-sent bookkeeping lives in Redis so restarts don't re-send.
type CheckInScheduler struct {
	userRepo    *repository.UserRepo
	journalRepo *repository.JournalRepo
	email       *EmailService
	redis       *redis.Client
	stopChan    chan struct{}
}

func NewCheckInScheduler(
	userRepo *repository.UserRepo,
	journalRepo *repository.JournalRepo,
	email *EmailService,
	redisClient *redis.Client,
) *CheckInScheduler {
	return &CheckInScheduler{
		userRepo:    userRepo,
		journalRepo: journalRepo,
		email:       email,
		redis:       redisClient,
		stopChan:    make(chan struct{}),
	}
}

func (s *CheckInScheduler) Start() {
	if s.userRepo == nil || s.email == nil {
		return
	}

	go s.loop()
	log.Printf("Check-in reminder scheduler started")
}

func (s *CheckInScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *CheckInScheduler) loop() {
	// Run on startup as well as by interval.
	s.sendCheckInReminders(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sendCheckInReminders(context.Background(), time.Now().UTC())
		}
	}
}

func (s *CheckInScheduler) sendCheckInReminders(ctx context.Context, now time.Time) {
	recipients, err := s.userRepo.ListActiveVerified(ctx)
	if err != nil {
		log.Printf("check-in reminders: failed to list recipients: %v", err)
		return
	}

	for _, recipient := range recipients {
		lastSentRaw, _ := s.redis.Get(ctx, checkInLastSentPrefix+recipient.ID.String()).Result()
		if !shouldSendByLastSent(lastSentRaw, checkInInterval, now) {
			continue
		}

		lastEntryAt, entryErr := s.journalRepo.GetLatestEntryAt(ctx, recipient.ID)
		if entryErr != nil {
			log.Printf("check-in reminders: failed to load latest entry for user %s: %v", recipient.ID, entryErr)
			continue
		}

		referenceTime := reminderReferenceTime(lastEntryAt, recipient.CreatedAt)
		if now.Sub(referenceTime) < checkInInterval {
			continue
		}

		if err := s.email.SendCheckInReminderEmail(recipient.Email, recipient.FullName, lastEntryAt); err != nil {
			log.Printf("check-in reminders: failed to send to %s: %v", recipient.Email, err)
			continue
		}

		if err := s.redis.Set(ctx, checkInLastSentPrefix+recipient.ID.String(), now.Format(time.RFC3339), 0).Err(); err != nil {
			log.Printf("check-in reminders: failed to persist last sent at for user %s: %v", recipient.ID, err)
		}
	}
}

func shouldSendByLastSent(lastSentRaw string, minInterval time.Duration, now time.Time) bool {
	if lastSentRaw == "" {
		return true
	}

	lastSentAt, err := time.Parse(time.RFC3339, lastSentRaw)
	if err != nil {
		return true
	}

	return now.Sub(lastSentAt) >= minInterval
}

func reminderReferenceTime(lastEntryAt *time.Time, createdAt time.Time) time.Time {
	if lastEntryAt != nil && !lastEntryAt.IsZero() {
		return lastEntryAt.UTC()
	}

	return createdAt.UTC()
}
