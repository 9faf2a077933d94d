package repository

import (
	"context"
	"errors"

	"github.com/brandwell/revenuehub/internal/importlog/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.ImportError) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.ImportError, int64, error) {
	q := db.WithContext(ctx).Model(&domain.ImportError{})
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.DateFrom != nil {
		q = q.Where("import_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("import_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []domain.ImportError
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ImportError, error) {
	var rec domain.ImportError
	err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
