package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ImportError is one durably recorded row-level failure. Records are
// append-only; the import engine never mutates or deletes them.
type ImportError struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Source     string       `gorm:"size:50;not null;index:idx_import_error_source_date" json:"source"`
	ImportDate time.Time    `gorm:"not null;index:idx_import_error_source_date" json:"import_date"`
	RawPayload string       `gorm:"type:text;not null" json:"raw_payload"`
	Message    string       `gorm:"type:text" json:"message"`
	RowNumber  *int         `json:"row_number,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ListFilter narrows the error listing by source and import date.
type ListFilter struct {
	Source   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *ImportError) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]ImportError, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ImportError, error)
}
