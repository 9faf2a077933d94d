package service

import (
	"context"
	"fmt"

	factdomain "github.com/brandwell/revenuehub/internal/fact/domain"
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/brandwell/revenuehub/internal/importer/resolver"
	pkgdb "github.com/brandwell/revenuehub/pkg/db"
	"gorm.io/gorm"
)

// upsertFact reconciles one resolved row against the fact table. The
// applicable natural key variant is chosen by whether the item link
// exists; an existing fact has all measures and re-derivable foreign
// keys overwritten, a missing one is inserted. Running twice with the
// same input is a no-op beyond the update timestamp.
func (s *Service) upsertFact(ctx context.Context, tx *gorm.DB, res *resolver.Resolved, row *domain.Row) (created bool, err error) {
	key := factdomain.NaturalKey{
		Date:           row.Date,
		ChannelID:      res.ChannelID,
		ItemID:         res.ItemID,
		CustomerID:     res.CustomerID,
		RawChannelCode: res.RawChannelCode,
	}

	existing, err := s.facts.FindByNaturalKey(ctx, tx, key)
	if err != nil {
		return false, err
	}

	// A row that resolved to an item may have been imported unlinked
	// before; claim the unlinked fact instead of inserting a duplicate.
	if existing == nil && res.ItemID != nil {
		raw := rawIdentifier(row)
		if raw != nil {
			unlinkedKey := key
			unlinkedKey.ItemID = nil
			unlinkedKey.RawChannelCode = raw
			existing, err = s.facts.FindByNaturalKey(ctx, tx, unlinkedKey)
			if err != nil {
				return false, err
			}
		}
	}

	fact := &factdomain.RevenueFact{
		Date:                row.Date,
		BrandID:             res.BrandID,
		ItemID:              res.ItemID,
		ChannelID:           res.ChannelID,
		CustomerID:          res.CustomerID,
		Revenue:             row.Revenue,
		Units:               row.Units,
		Stores:              row.Stores,
		DollarsPerStoreWeek: row.DollarsPerStoreWeek,
		UnitsPerStoreWeek:   row.UnitsPerStoreWeek,
		OOS:                 row.OutOfStockPercent,
		RawChannelCode:      res.RawChannelCode,
	}

	if existing != nil {
		fact.ID = existing.ID
		if err := s.facts.Update(ctx, tx, fact); err != nil {
			return false, &domain.PersistenceError{Cause: err}
		}
		return false, nil
	}

	fact.ID = s.genID.Generate()
	if err := s.facts.Insert(ctx, tx, fact); err != nil {
		// A duplicate key here means another run claimed the natural
		// key between our lookup and this insert.
		if pkgdb.IsDuplicateKeyErr(err) {
			return false, &domain.PersistenceError{Cause: fmt.Errorf("fact already exists for this period: %w", err)}
		}
		return false, &domain.PersistenceError{Cause: err}
	}
	return true, nil
}

func rawIdentifier(row *domain.Row) *string {
	for _, p := range []*string{row.ChannelItemCode, row.ChannelItemName, row.ItemCode, row.ItemName} {
		if p != nil && *p != "" {
			return p
		}
	}
	return nil
}
