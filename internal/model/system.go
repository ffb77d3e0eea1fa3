package model

import "time"

const SystemKeyWeeklyLeaderboard = "weeklyLeaderboard"

// SystemState is a singleton-per-key configuration record. The weekly reset
// job keeps its watermark under SystemKeyWeeklyLeaderboard.
type SystemState struct {
	Key       string    `gorm:"size:100;primaryKey" json:"key"`
	Value     string    `gorm:"type:jsonb" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SystemValue is the payload stored under the weekly leaderboard key.
type SystemValue struct {
	LastResetTs int64 `json:"lastResetTs"`
}
