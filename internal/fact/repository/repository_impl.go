package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brandwell/revenuehub/internal/fact/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByNaturalKey(ctx context.Context, db *gorm.DB, key domain.NaturalKey) (*domain.RevenueFact, error) {
	if (key.ItemID == nil) == (key.RawChannelCode == nil) {
		return nil, domain.ErrInvalidKey
	}

	stmt := db.WithContext(ctx).
		Where("date = ? AND channel_id = ?", key.Date, key.ChannelID)

	if key.ItemID != nil {
		stmt = stmt.Where("item_id = ?", *key.ItemID)
	} else {
		stmt = stmt.Where("item_id IS NULL AND raw_channel_code = ?", *key.RawChannelCode)
	}

	if key.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *key.CustomerID)
	} else {
		stmt = stmt.Where("customer_id IS NULL")
	}

	var fact domain.RevenueFact
	if err := stmt.First(&fact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fact, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, fact *domain.RevenueFact) error {
	return db.WithContext(ctx).Create(fact).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, fact *domain.RevenueFact) error {
	return db.WithContext(ctx).
		Model(&domain.RevenueFact{}).
		Where("id = ?", fact.ID).
		Updates(map[string]any{
			"brand_id":               fact.BrandID,
			"item_id":                fact.ItemID,
			"customer_id":            fact.CustomerID,
			"revenue":                fact.Revenue,
			"units":                  fact.Units,
			"stores":                 fact.Stores,
			"dollars_per_store_week": fact.DollarsPerStoreWeek,
			"units_per_store_week":   fact.UnitsPerStoreWeek,
			"oos":                    fact.OOS,
			"raw_channel_code":       fact.RawChannelCode,
			"updated_at":             time.Now().UTC(),
		}).Error
}

func (r *repo) LatestDate(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	var fact domain.RevenueFact
	err := db.WithContext(ctx).
		Order("date desc").
		First(&fact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	d := fact.Date
	return &d, nil
}

func (r *repo) ListUnlinked(ctx context.Context, db *gorm.DB) ([]domain.UnlinkedGroup, error) {
	var groups []domain.UnlinkedGroup
	err := db.WithContext(ctx).
		Model(&domain.RevenueFact{}).
		Select("channel_id, raw_channel_code, COUNT(*) AS fact_count, SUM(revenue) AS total_revenue").
		Where("item_id IS NULL AND raw_channel_code IS NOT NULL").
		Group("channel_id, raw_channel_code").
		Order("total_revenue DESC").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repo) LinkRawCode(ctx context.Context, db *gorm.DB, channelID snowflake.ID, rawCode string, itemID, brandID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.RevenueFact{}).
		Where("channel_id = ? AND raw_channel_code = ? AND item_id IS NULL", channelID, rawCode).
		Updates(map[string]any{
			"item_id":    itemID,
			"brand_id":   brandID,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
