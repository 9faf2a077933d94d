package service

import (
	"context"

	catalogdomain "github.com/brandwell/revenuehub/internal/catalog/domain"
	"github.com/brandwell/revenuehub/internal/fact/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Catalog catalogdomain.Repository
	Facts   domain.Repository
}

// Service covers the triage side of the fact table: browsing facts
// whose item link is missing and retroactively linking them.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	catalog catalogdomain.Repository
	facts   domain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("fact.service"),
		genID:   p.GenID,
		catalog: p.Catalog,
		facts:   p.Facts,
	}
}

// ListUnlinked groups unresolved facts by (channel, raw code) for the
// triage listing, biggest revenue first.
func (s *Service) ListUnlinked(ctx context.Context) ([]domain.UnlinkedGroup, error) {
	return s.facts.ListUnlinked(ctx, s.db)
}

// Link assigns an item to every unlinked fact carrying the given raw
// code on the given channel. The brand comes from the item, and the
// channel alias is recorded so future imports resolve directly.
func (s *Service) Link(ctx context.Context, channelID snowflake.ID, rawCode string, itemID snowflake.ID) (int64, error) {
	var linked int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.catalog.FindItemByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		linked, err = s.facts.LinkRawCode(ctx, tx, channelID, rawCode, item.ID, item.BrandID)
		if err != nil {
			return err
		}
		if linked == 0 {
			return domain.ErrNothingLinked
		}

		alias, err := s.catalog.FindChannelItem(ctx, tx, channelID, item.ID)
		if err != nil {
			return err
		}
		if alias == nil {
			code := rawCode
			alias = &catalogdomain.ChannelItem{
				ID:          s.genID.Generate(),
				ChannelID:   channelID,
				ItemID:      item.ID,
				ChannelCode: &code,
			}
			if err := s.catalog.InsertChannelItem(ctx, tx, alias); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("linked unlinked facts",
		zap.String("raw_channel_code", rawCode),
		zap.Int64("facts", linked))
	return linked, nil
}
