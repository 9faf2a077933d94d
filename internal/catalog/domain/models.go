package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Brand is a product line owned by the business. Both name and code are
// unique across all brands; code may be absent.
type Brand struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	Code      *string      `gorm:"uniqueIndex" json:"code,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Channel is a sales outlet or retail banner, e.g. "Walmart".
type Channel struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Customer is a named account within one channel, optionally tied to a brand.
// Unique per (channel, name).
type Customer struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	ChannelID snowflake.ID  `gorm:"not null;uniqueIndex:uq_customer_channel" json:"channel_id"`
	BrandID   *snowflake.ID `json:"brand_id,omitempty"`
	Name      string        `gorm:"not null;uniqueIndex:uq_customer_channel" json:"name"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Item is a product identified primarily by an internal code. The code is
// nullable but unique when present; every item belongs to exactly one brand.
type Item struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      *string      `gorm:"uniqueIndex" json:"code,omitempty"`
	Name      *string      `json:"name,omitempty"`
	BrandID   snowflake.ID `gorm:"not null;index" json:"brand_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ChannelItem maps one item to one channel-specific code/name pair. It is the
// mechanism by which a channel-local product code resolves to an internal
// Item on later imports. Unique per (channel, item).
type ChannelItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ChannelID   snowflake.ID `gorm:"not null;uniqueIndex:uq_channel_item" json:"channel_id"`
	ItemID      snowflake.ID `gorm:"not null;uniqueIndex:uq_channel_item" json:"item_id"`
	ChannelCode *string      `gorm:"index" json:"channel_code,omitempty"`
	ChannelName *string      `json:"channel_name,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
