package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"soultalk-backend/internal/models"
)

func testUser() *models.User {
	contactName := "Jamie Rivera"
	contactNumber := "+1-555-0142"
	return &models.User{
		ID:                     uuid.New(),
		Email:                  "user@example.com",
		FullName:               "Alex Chen",
		EmergencyContactName:   &contactName,
		EmergencyContactNumber: &contactNumber,
	}
}

func TestEscalationTriggerAtMostOncePerSession(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// No queue: delivery runs inline, no geolocation configured.
	svc := NewEscalationService(NewMemoryAlertRegistry(), nil, server.URL, "", nil, nil)

	sessionID := uuid.New()
	user := testUser()

	if !svc.Trigger(context.Background(), sessionID, user) {
		t.Fatal("expected first crisis turn to initiate a notification")
	}
	if svc.Trigger(context.Background(), sessionID, user) {
		t.Fatal("expected second crisis turn in the same session to be suppressed")
	}

	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("expected exactly one webhook call, got %d", got)
	}
}

func TestEscalationSeparateSessionsNotifySeparately(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer server.Close()

	svc := NewEscalationService(NewMemoryAlertRegistry(), nil, server.URL, "", nil, nil)
	user := testUser()

	svc.Trigger(context.Background(), uuid.New(), user)
	svc.Trigger(context.Background(), uuid.New(), user)

	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("expected one webhook call per session, got %d", got)
	}
}

func TestEscalationMarksSentEvenWhenDeliveryFails(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewEscalationService(NewMemoryAlertRegistry(), nil, server.URL, "", nil, nil)

	sessionID := uuid.New()
	user := testUser()

	// Delivery fails but the session is marked sent regardless; the user
	// must still see a calm "help is on the way" state.
	if !svc.Trigger(context.Background(), sessionID, user) {
		t.Fatal("expected the failed delivery to still count as initiated")
	}
	if svc.Trigger(context.Background(), sessionID, user) {
		t.Fatal("expected no retry after a failed delivery")
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("expected a single delivery attempt, got %d", got)
	}
}

func TestMemoryAlertRegistry(t *testing.T) {
	registry := NewMemoryAlertRegistry()
	sessionID := uuid.New()

	if !registry.MarkIfFirst(context.Background(), sessionID) {
		t.Fatal("first mark must succeed")
	}
	if registry.MarkIfFirst(context.Background(), sessionID) {
		t.Fatal("second mark for the same session must fail")
	}
	if !registry.MarkIfFirst(context.Background(), uuid.New()) {
		t.Fatal("a different session must get its own mark")
	}
}
