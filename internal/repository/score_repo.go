package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edushare/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreRepository owns every read and write of the user score fields plus the
// weekly reset watermark. No other repository touches these columns.
type ScoreRepository interface {
	// AdjustScore applies delta to all three score fields in one statement,
	// flooring each at zero. Returns the number of matched users (0 when the
	// user does not exist).
	AdjustScore(ctx context.Context, userID uuid.UUID, delta int) (int64, error)
	// ResetWeeklyScores zeroes weekly_score for every user.
	ResetWeeklyScores(ctx context.Context) (int64, error)
	// GetLastResetTs returns the persisted watermark in epoch ms, 0 when no
	// reset has ever run.
	GetLastResetTs(ctx context.Context) (int64, error)
	// SetLastResetTs upserts the watermark record.
	SetLastResetTs(ctx context.Context, ts int64) error
	// GetTopByWeeklyScore returns up to limit users ordered by weekly score
	// descending.
	GetTopByWeeklyScore(ctx context.Context, limit int) ([]model.User, error)
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) AdjustScore(ctx context.Context, userID uuid.UUID, delta int) (int64, error) {
	// GREATEST keeps the increment and the floor in a single atomic statement,
	// so concurrent adjustments to the same user never observe a transient
	// negative or overwrite each other.
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"weekly_score":   gorm.Expr("GREATEST(weekly_score + ?, 0)", delta),
			"lifetime_score": gorm.Expr("GREATEST(lifetime_score + ?, 0)", delta),
			"score":          gorm.Expr("GREATEST(score + ?, 0)", delta),
		})
	return res.RowsAffected, res.Error
}

func (r *scoreRepository) ResetWeeklyScores(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("1 = 1").
		Update("weekly_score", 0)
	return res.RowsAffected, res.Error
}

func (r *scoreRepository) GetLastResetTs(ctx context.Context) (int64, error) {
	var states []model.SystemState
	err := r.db.WithContext(ctx).
		Where("key = ?", model.SystemKeyWeeklyLeaderboard).
		Limit(1).
		Find(&states).Error
	if err != nil {
		return 0, err
	}
	if len(states) == 0 {
		return 0, nil
	}

	var value model.SystemValue
	if err := json.Unmarshal([]byte(states[0].Value), &value); err != nil {
		return 0, fmt.Errorf("corrupt watermark value: %w", err)
	}
	return value.LastResetTs, nil
}

func (r *scoreRepository) SetLastResetTs(ctx context.Context, ts int64) error {
	raw, err := json.Marshal(model.SystemValue{LastResetTs: ts})
	if err != nil {
		return err
	}

	// Using GORM OnConflict for Upsert
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": string(raw),
		}),
	}).Create(&model.SystemState{
		Key:   model.SystemKeyWeeklyLeaderboard,
		Value: string(raw),
	}).Error
}

func (r *scoreRepository) GetTopByWeeklyScore(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("weekly_score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
