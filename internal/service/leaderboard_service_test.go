package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestLeaderboardOrdersByWeeklyScore(t *testing.T) {
	repo := newFakeScoreRepo()
	repo.addUser("third", 10, 100)
	repo.addUser("first", 30, 30)
	repo.addUser("second", 20, 55)
	svc := NewLeaderboardService(repo, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard returned error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if entries[i].Username != want {
			t.Errorf("entries[%d].Username = %q, want %q", i, entries[i].Username, want)
		}
	}

	// Ranking follows the weekly score, not lifetime.
	if entries[0].WeeklyScore != 30 || entries[0].LifetimeScore != 30 {
		t.Errorf("top entry scores = (%d, %d), want (30, 30)", entries[0].WeeklyScore, entries[0].LifetimeScore)
	}
	if entries[2].LifetimeScore != 100 {
		t.Errorf("last entry lifetime = %d, want 100", entries[2].LifetimeScore)
	}
}

func TestLeaderboardLegacyScoreMirrorsWeekly(t *testing.T) {
	repo := newFakeScoreRepo()
	repo.addUser("alice", 8, 200)
	svc := NewLeaderboardService(repo, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard returned error: %v", err)
	}
	if entries[0].Score != entries[0].WeeklyScore {
		t.Errorf("Score = %d, want weekly value %d", entries[0].Score, entries[0].WeeklyScore)
	}
}

func TestLeaderboardCapsAtTen(t *testing.T) {
	repo := newFakeScoreRepo()
	for i := 0; i < 15; i++ {
		repo.addUser(fmt.Sprintf("user%d", i), i, i)
	}
	svc := NewLeaderboardService(repo, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard returned error: %v", err)
	}
	if len(entries) != LeaderboardLimit {
		t.Errorf("len(entries) = %d, want %d", len(entries), LeaderboardLimit)
	}
	if entries[0].WeeklyScore != 14 {
		t.Errorf("top weekly score = %d, want 14", entries[0].WeeklyScore)
	}
}

func TestLeaderboardOmitsCredentials(t *testing.T) {
	repo := newFakeScoreRepo()
	repo.addUser("alice", 5, 5)
	svc := NewLeaderboardService(repo, nil)

	entries, err := svc.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard returned error: %v", err)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	payload := strings.ToLower(string(raw))
	for _, field := range []string{"email", "password"} {
		if strings.Contains(payload, field) {
			t.Errorf("leaderboard payload leaks %q: %s", field, payload)
		}
	}
}
