package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RevenueFact is one measured period of sales for an item (or a raw,
// not-yet-linked channel code) through a channel. The date is always the
// first day of the period's week or month, per source.
//
// Two mutually exclusive natural keys apply: (date, channel, item, customer)
// when the item is known, and (date, channel, raw_channel_code, customer)
// when it is not. Facts without an item must carry a raw channel code so a
// later linking pass can claim them.
type RevenueFact struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	Date       time.Time     `gorm:"not null;index" json:"date"`
	BrandID    *snowflake.ID `gorm:"index" json:"brand_id,omitempty"`
	ItemID     *snowflake.ID `gorm:"index" json:"item_id,omitempty"`
	ChannelID  snowflake.ID  `gorm:"not null;index" json:"channel_id"`
	CustomerID *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`

	Revenue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"revenue"`
	Units   int64           `gorm:"not null" json:"units"`
	Stores  int64           `gorm:"not null;default:0" json:"stores"`

	// Source-specific optional measures.
	DollarsPerStoreWeek *decimal.Decimal `gorm:"type:numeric(12,2)" json:"dollars_per_store_week,omitempty"`
	UnitsPerStoreWeek   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"units_per_store_week,omitempty"`
	OOS                 *decimal.Decimal `gorm:"type:numeric(5,2)" json:"oos,omitempty"`

	// RawChannelCode is kept for facts whose item link could not be
	// resolved; a later triage pass turns it into an item link.
	RawChannelCode *string `gorm:"index" json:"raw_channel_code,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// NaturalKey identifies a fact by business-meaningful columns. ItemID and
// RawChannelCode select which uniqueness variant applies: exactly one of them
// must be set.
type NaturalKey struct {
	Date           time.Time
	ChannelID      snowflake.ID
	ItemID         *snowflake.ID
	CustomerID     *snowflake.ID
	RawChannelCode *string
}

// UnlinkedGroup summarizes unresolved facts sharing one (channel, raw code)
// pair, for the triage listing.
type UnlinkedGroup struct {
	ChannelID      snowflake.ID    `json:"channel_id"`
	RawChannelCode string          `json:"raw_channel_code"`
	FactCount      int64           `json:"fact_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}
