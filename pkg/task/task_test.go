package task

import (
	"testing"
	"time"
)

func TestParseTrack(t *testing.T) {
	cases := map[string]Track{
		"A":       TrackA,
		"a":       TrackA,
		"B":       TrackB,
		"b":       TrackB,
		"track_b": TrackB,
		"":        TrackA,
		"zzz":     TrackA,
	}
	for in, want := range cases {
		if got := ParseTrack(in); got != want {
			t.Errorf("ParseTrack(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range Statuses() {
		want := s == StatusClosed || s == StatusCancelled
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}

func TestUrgencyAt(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		task   Task
		expect Urgency
	}{
		{"overdue", Task{Status: StatusPendingSupplier, RequiredDate: "2026-08-27"}, UrgencyOverdue},
		{"due today", Task{Status: StatusPendingSupplier, RequiredDate: "2026-08-28"}, UrgencyDueToday},
		{"upcoming", Task{Status: StatusPendingSupplier, RequiredDate: "2026-09-01"}, UrgencyUpcoming},
		{"no date", Task{Status: StatusPendingSupplier}, UrgencyNone},
		{"bad date", Task{Status: StatusPendingSupplier, RequiredDate: "soon"}, UrgencyNone},
		{"closed never urgent", Task{Status: StatusClosed, RequiredDate: "2026-08-01"}, UrgencyNone},
		{"cancelled never urgent", Task{Status: StatusCancelled, RequiredDate: "2026-08-01"}, UrgencyNone},
	}
	for _, tc := range cases {
		if got := tc.task.UrgencyAt(now); got != tc.expect {
			t.Errorf("%s: UrgencyAt = %v, want %v", tc.name, got, tc.expect)
		}
	}
}

func TestUnknownStatusLabelPassesThrough(t *testing.T) {
	s := Status("weird_future_status")
	if s.Valid() {
		t.Fatal("unexpected valid status")
	}
	if got := s.Label(); got != "weird_future_status" {
		t.Errorf("Label() = %q", got)
	}
}
