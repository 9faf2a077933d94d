package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")

// Repository is the lookup/insert surface the import resolver works against.
// Every method takes the db handle explicitly so callers can pass a
// transaction. Find methods return (nil, nil) on a clean miss.
type Repository interface {
	FindBrandByName(ctx context.Context, db *gorm.DB, name string) (*Brand, error)
	FindBrandByCode(ctx context.Context, db *gorm.DB, code string) (*Brand, error)
	InsertBrand(ctx context.Context, db *gorm.DB, brand *Brand) error
	UpdateBrandCode(ctx context.Context, db *gorm.DB, id snowflake.ID, code string) error

	FindChannelByName(ctx context.Context, db *gorm.DB, name string) (*Channel, error)
	InsertChannel(ctx context.Context, db *gorm.DB, channel *Channel) error

	FindItemByCode(ctx context.Context, db *gorm.DB, code string) (*Item, error)
	FindItemByName(ctx context.Context, db *gorm.DB, name string) (*Item, error)
	FindItemByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Item, error)
	InsertItem(ctx context.Context, db *gorm.DB, item *Item) error

	FindChannelItem(ctx context.Context, db *gorm.DB, channelID, itemID snowflake.ID) (*ChannelItem, error)
	FindChannelItemByCode(ctx context.Context, db *gorm.DB, channelID snowflake.ID, code string) (*ChannelItem, error)
	FindChannelItemByName(ctx context.Context, db *gorm.DB, channelID snowflake.ID, name string) (*ChannelItem, error)
	InsertChannelItem(ctx context.Context, db *gorm.DB, alias *ChannelItem) error
	UpdateChannelItem(ctx context.Context, db *gorm.DB, alias *ChannelItem) error

	FindCustomer(ctx context.Context, db *gorm.DB, channelID snowflake.ID, name string) (*Customer, error)
	InsertCustomer(ctx context.Context, db *gorm.DB, customer *Customer) error
}
