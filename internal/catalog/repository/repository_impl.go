package repository

import (
	"context"
	"errors"

	"github.com/brandwell/revenuehub/internal/catalog/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func firstOrNil[T any](db *gorm.DB, out *T) (*T, error) {
	err := db.First(out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (r *repo) FindBrandByName(ctx context.Context, db *gorm.DB, name string) (*domain.Brand, error) {
	var brand domain.Brand
	return firstOrNil(db.WithContext(ctx).Where("name = ?", name), &brand)
}

func (r *repo) FindBrandByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Brand, error) {
	var brand domain.Brand
	return firstOrNil(db.WithContext(ctx).Where("code = ?", code), &brand)
}

func (r *repo) InsertBrand(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Create(brand).Error
}

func (r *repo) UpdateBrandCode(ctx context.Context, db *gorm.DB, id snowflake.ID, code string) error {
	return db.WithContext(ctx).
		Model(&domain.Brand{}).
		Where("id = ?", id).
		Update("code", code).Error
}

func (r *repo) FindChannelByName(ctx context.Context, db *gorm.DB, name string) (*domain.Channel, error) {
	var channel domain.Channel
	return firstOrNil(db.WithContext(ctx).Where("name = ?", name), &channel)
}

func (r *repo) InsertChannel(ctx context.Context, db *gorm.DB, channel *domain.Channel) error {
	return db.WithContext(ctx).Create(channel).Error
}

func (r *repo) FindItemByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Item, error) {
	var item domain.Item
	return firstOrNil(db.WithContext(ctx).Where("code = ?", code), &item)
}

func (r *repo) FindItemByName(ctx context.Context, db *gorm.DB, name string) (*domain.Item, error) {
	var item domain.Item
	return firstOrNil(db.WithContext(ctx).Where("name = ?", name), &item)
}

func (r *repo) FindItemByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	return firstOrNil(db.WithContext(ctx).Where("id = ?", id), &item)
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.Item) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindChannelItem(ctx context.Context, db *gorm.DB, channelID, itemID snowflake.ID) (*domain.ChannelItem, error) {
	var alias domain.ChannelItem
	return firstOrNil(db.WithContext(ctx).
		Where("channel_id = ? AND item_id = ?", channelID, itemID), &alias)
}

func (r *repo) FindChannelItemByCode(ctx context.Context, db *gorm.DB, channelID snowflake.ID, code string) (*domain.ChannelItem, error) {
	var alias domain.ChannelItem
	return firstOrNil(db.WithContext(ctx).
		Where("channel_id = ? AND channel_code = ?", channelID, code), &alias)
}

func (r *repo) FindChannelItemByName(ctx context.Context, db *gorm.DB, channelID snowflake.ID, name string) (*domain.ChannelItem, error) {
	var alias domain.ChannelItem
	return firstOrNil(db.WithContext(ctx).
		Where("channel_id = ? AND channel_name = ?", channelID, name), &alias)
}

func (r *repo) InsertChannelItem(ctx context.Context, db *gorm.DB, alias *domain.ChannelItem) error {
	return db.WithContext(ctx).Create(alias).Error
}

func (r *repo) UpdateChannelItem(ctx context.Context, db *gorm.DB, alias *domain.ChannelItem) error {
	return db.WithContext(ctx).
		Model(&domain.ChannelItem{}).
		Where("id = ?", alias.ID).
		Updates(map[string]any{
			"channel_code": alias.ChannelCode,
			"channel_name": alias.ChannelName,
		}).Error
}

func (r *repo) FindCustomer(ctx context.Context, db *gorm.DB, channelID snowflake.ID, name string) (*domain.Customer, error) {
	var customer domain.Customer
	return firstOrNil(db.WithContext(ctx).
		Where("channel_id = ? AND name = ?", channelID, name), &customer)
}

func (r *repo) InsertCustomer(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}
