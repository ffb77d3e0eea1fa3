package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	// LeaderboardLimit caps the ranked view regardless of user count.
	LeaderboardLimit = 10

	leaderboardCacheKey = "leaderboard:weekly"
	leaderboardCacheTTL = 30 * time.Second
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo        repository.ScoreRepository
	redisClient *redis.Client
}

// NewLeaderboardService builds the ranked weekly view. redisClient may be nil;
// the cache is then skipped entirely.
func NewLeaderboardService(repo repository.ScoreRepository, redisClient *redis.Client) LeaderboardService {
	return &leaderboardService{repo: repo, redisClient: redisClient}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []dto.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			log.Printf("leaderboard cache read failed: %v", err)
		}
	}

	users, err := s.repo.GetTopByWeeklyScore(ctx, LeaderboardLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, dto.LeaderboardEntry{
			ID:            u.ID,
			Username:      u.Username,
			WeeklyScore:   u.WeeklyScore,
			LifetimeScore: u.LifetimeScore,
			// Legacy clients read the weekly contest value from "score".
			Score: u.WeeklyScore,
		})
	}

	if s.redisClient != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.redisClient.SetEx(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("leaderboard cache write failed: %v", err)
			}
		}
	}

	return entries, nil
}
