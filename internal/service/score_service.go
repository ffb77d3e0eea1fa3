package service

import (
	"context"
	"log"

	"github.com/edushare/backend/internal/repository"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/google/uuid"
)

// Point deltas per engagement action. Debits are the negated credit.
const (
	PointsCreatePost      = 5
	PointsLikeReceived    = 1
	PointsCommentReceived = 2
	PointsFollowReceived  = 3
)

// ScoreService is the contribution-score ledger. Every score mutation in the
// system goes through Adjust; engagement handlers call AdjustAsync after their
// own write succeeds and never wait on the result.
type ScoreService interface {
	Adjust(ctx context.Context, userID uuid.UUID, delta int) error
	AdjustAsync(userID uuid.UUID, delta int)
}

type scoreService struct {
	repo repository.ScoreRepository
}

func NewScoreService(repo repository.ScoreRepository) ScoreService {
	return &scoreService{repo: repo}
}

func (s *scoreService) Adjust(ctx context.Context, userID uuid.UUID, delta int) error {
	if userID == uuid.Nil {
		log.Println("score adjust: no user id provided")
		return apperror.ErrInvalidInput
	}

	rows, err := s.repo.AdjustScore(ctx, userID, delta)
	if err != nil {
		log.Printf("score adjust failed for user %s: %v", userID, err)
		return err
	}
	if rows == 0 {
		log.Printf("score adjust: user %s not found", userID)
		return apperror.ErrNotFound
	}
	return nil
}

// AdjustAsync applies the delta in the background. Failures are logged and
// swallowed; the triggering action has already succeeded.
func (s *scoreService) AdjustAsync(userID uuid.UUID, delta int) {
	go func() {
		_ = s.Adjust(context.Background(), userID, delta)
	}()
}
