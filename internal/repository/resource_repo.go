package repository

import (
	"context"

	"github.com/edushare/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	Save(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Resource, error)
	List(ctx context.Context, page, limit int) ([]model.Resource, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) Save(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Save(resource).Error
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	var resources []model.Resource
	err := r.db.WithContext(ctx).Preload("Uploader").
		Where("id = ?", id).Limit(1).Find(&resources).Error
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &resources[0], nil
}

func (r *resourceRepository) List(ctx context.Context, page, limit int) ([]model.Resource, int64, error) {
	var (
		resources []model.Resource
		total     int64
	)

	if err := r.db.WithContext(ctx).Model(&model.Resource{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).Preload("Uploader").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&resources).Error
	return resources, total, err
}

func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Resource{}).Error
}
