package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	ID            uuid.UUID   `json:"id"`
	Username      string      `json:"username"`
	Role          string      `json:"role"`
	Score         int         `json:"score"`
	WeeklyScore   int         `json:"weeklyScore"`
	LifetimeScore int         `json:"lifetimeScore"`
	Followers     []uuid.UUID `json:"followers"`
	Following     []uuid.UUID `json:"following"`
	CreatedAt     time.Time   `json:"created_at"`
}

type ProfileResponse struct {
	User  UserProfile    `json:"user"`
	Posts []PostResponse `json:"posts"`
}
