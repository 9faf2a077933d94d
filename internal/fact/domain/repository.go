package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not_found")
	ErrInvalidKey    = errors.New("invalid_natural_key")
	ErrNothingLinked = errors.New("no_matching_unlinked_facts")
)

type Repository interface {
	// FindByNaturalKey returns the fact for the key's applicable
	// uniqueness variant, or (nil, nil) when no fact exists yet.
	FindByNaturalKey(ctx context.Context, db *gorm.DB, key NaturalKey) (*RevenueFact, error)
	Insert(ctx context.Context, db *gorm.DB, fact *RevenueFact) error
	// Update overwrites all measure columns and re-derivable foreign keys
	// of an existing fact and stamps updated_at.
	Update(ctx context.Context, db *gorm.DB, fact *RevenueFact) error

	// LatestDate returns the most recent fact date on file, or nil when
	// the table is empty. It drives full-vs-incremental warehouse pulls.
	LatestDate(ctx context.Context, db *gorm.DB) (*time.Time, error)

	ListUnlinked(ctx context.Context, db *gorm.DB) ([]UnlinkedGroup, error)
	// LinkRawCode retroactively sets item and brand on every unlinked
	// fact matching (channel, raw code) and returns how many were linked.
	LinkRawCode(ctx context.Context, db *gorm.DB, channelID snowflake.ID, rawCode string, itemID, brandID snowflake.ID) (int64, error)
}
