package dto

import "github.com/google/uuid"

// LeaderboardEntry is a ranked weekly-contest row. Score mirrors WeeklyScore
// under the legacy field name for older clients.
type LeaderboardEntry struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	WeeklyScore   int       `json:"weeklyScore"`
	LifetimeScore int       `json:"lifetimeScore"`
	Score         int       `json:"score"`
}

type LeaderboardResponse struct {
	Success     bool               `json:"success"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
