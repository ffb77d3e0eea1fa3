package service

import (
	"context"
	"log"
	"time"

	"github.com/edushare/backend/internal/repository"
	"github.com/robfig/cron/v3"
)

// ResetService zeroes every user's weekly score once per weekly window. The
// window starts at the most recent Sunday 00:00 in server-local time; a
// persisted watermark records the last successful reset so restarts and
// overlapping processes stay idempotent (a redundant reset just rewrites
// zeroes).
type ResetService struct {
	repo repository.ScoreRepository
	cron *cron.Cron
}

func NewResetService(repo repository.ScoreRepository) *ResetService {
	return &ResetService{
		repo: repo,
		cron: cron.New(),
	}
}

// WeekStart returns the most recent Sunday 00:00 in t's location.
func WeekStart(t time.Time) time.Time {
	daysSinceSunday := int(t.Weekday())
	return time.Date(t.Year(), t.Month(), t.Day()-daysSinceSunday, 0, 0, 0, 0, t.Location())
}

// RunIfDue performs the reset when the current weekly window began after the
// persisted watermark, and reports whether it did. The check-then-act sequence
// is not transactional; two concurrent callers may both reset, which is
// harmless.
func (s *ResetService) RunIfDue(ctx context.Context, now time.Time) (bool, error) {
	lastReset, err := s.repo.GetLastResetTs(ctx)
	if err != nil {
		return false, err
	}

	weekStart := WeekStart(now).UnixMilli()
	if lastReset >= weekStart {
		return false, nil
	}

	rows, err := s.repo.ResetWeeklyScores(ctx)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetLastResetTs(ctx, now.UnixMilli()); err != nil {
		return false, err
	}

	log.Printf("weekly leaderboard scores reset (%d users)", rows)
	return true, nil
}

// Start runs one immediate check, then keeps checking every minute. Errors are
// logged and swallowed; the next tick retries.
func (s *ResetService) Start() {
	check := func() {
		if _, err := s.RunIfDue(context.Background(), time.Now()); err != nil {
			log.Printf("weekly reset check failed: %v", err)
		}
	}

	check()

	if _, err := s.cron.AddFunc("@every 1m", check); err != nil {
		log.Printf("failed to schedule weekly reset check: %v", err)
		return
	}
	s.cron.Start()
	log.Println("weekly reset scheduler started (checks every 1 min)")
}

func (s *ResetService) Stop() {
	s.cron.Stop()
}
