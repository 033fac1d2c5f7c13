package services

import (
	"testing"
	"time"
)

func TestShouldSendByLastSent(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	if !shouldSendByLastSent("", 72*time.Hour, now) {
		t.Fatalf("expected empty last-sent value to allow sending")
	}

	if !shouldSendByLastSent("not-a-date", 72*time.Hour, now) {
		t.Fatalf("expected invalid timestamp to allow sending")
	}

	recent := now.Add(-2 * time.Hour).Format(time.RFC3339)
	if shouldSendByLastSent(recent, 72*time.Hour, now) {
		t.Fatalf("expected recent send timestamp to block sending")
	}

	old := now.Add(-96 * time.Hour).Format(time.RFC3339)
	if !shouldSendByLastSent(old, 72*time.Hour, now) {
		t.Fatalf("expected old send timestamp to allow sending")
	}
}

func TestReminderReferenceTime(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	reference := reminderReferenceTime(nil, created)
	if !reference.Equal(created) {
		t.Fatalf("expected created_at as fallback reference time")
	}

	lastEntry := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)
	reference = reminderReferenceTime(&lastEntry, created)
	if !reference.Equal(lastEntry) {
		t.Fatalf("expected latest journal entry to be preferred reference time")
	}
}
