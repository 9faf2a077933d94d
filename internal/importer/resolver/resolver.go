package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalog "github.com/brandwell/revenuehub/internal/catalog/domain"
	"github.com/brandwell/revenuehub/internal/importer/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Resolved carries the dimension links for one fact row. Exactly one
// of ItemID and RawChannelCode is set: rows whose item could not be
// determined keep the channel-local code for later triage.
type Resolved struct {
	BrandID        *snowflake.ID
	ChannelID      snowflake.ID
	ItemID         *snowflake.ID
	CustomerID     *snowflake.ID
	RawChannelCode *string
}

// Resolver performs find-or-create dimension resolution for one import
// run. Lookups go through a per-run cache that is extended immediately
// on creation, so later rows in the same run see earlier creations
// without a round trip.
type Resolver struct {
	repo  catalog.Repository
	genID *snowflake.Node

	brands    map[string]*catalog.Brand
	channels  map[string]*catalog.Channel
	items     map[string]*catalog.Item
	aliases   map[string]*catalog.ChannelItem
	customers map[string]*catalog.Customer

	created int
}

func New(repo catalog.Repository, genID *snowflake.Node) *Resolver {
	return &Resolver{
		repo:      repo,
		genID:     genID,
		brands:    make(map[string]*catalog.Brand),
		channels:  make(map[string]*catalog.Channel),
		items:     make(map[string]*catalog.Item),
		aliases:   make(map[string]*catalog.ChannelItem),
		customers: make(map[string]*catalog.Customer),
	}
}

// Created reports how many dimension entities this run has created.
func (r *Resolver) Created() int { return r.created }

// Forget drops the lookup cache and rewinds the created counter to a
// prior value. Called after a row rollback, which can leave cached
// entities that no longer exist in the database.
func (r *Resolver) Forget(created int) {
	r.brands = make(map[string]*catalog.Brand)
	r.channels = make(map[string]*catalog.Channel)
	r.items = make(map[string]*catalog.Item)
	r.aliases = make(map[string]*catalog.ChannelItem)
	r.customers = make(map[string]*catalog.Customer)
	r.created = created
}

// Resolve maps a normalized row onto dimension entities, creating any
// that are missing.
func (r *Resolver) Resolve(ctx context.Context, db *gorm.DB, row *domain.Row) (*Resolved, error) {
	brand, err := r.resolveBrand(ctx, db, row)
	if err != nil {
		return nil, &domain.ResolutionError{Entity: "brand", Cause: err}
	}

	channel, err := r.resolveChannel(ctx, db, row.ChannelName)
	if err != nil {
		return nil, &domain.ResolutionError{Entity: "channel", Cause: err}
	}

	item, err := r.resolveItem(ctx, db, row, brand, channel)
	if err != nil {
		return nil, &domain.ResolutionError{Entity: "item", Cause: err}
	}

	customer, err := r.resolveCustomer(ctx, db, row, channel, brand)
	if err != nil {
		return nil, &domain.ResolutionError{Entity: "customer", Cause: err}
	}

	out := &Resolved{ChannelID: channel.ID}
	if customer != nil {
		out.CustomerID = &customer.ID
	}
	if item != nil {
		out.ItemID = &item.ID
		out.BrandID = &item.BrandID
		if err := r.ensureAlias(ctx, db, channel, item, row); err != nil {
			return nil, &domain.ResolutionError{Entity: "channel alias", Cause: err}
		}
		return out, nil
	}

	// Item unresolved: the fact is persisted unlinked, keyed on the
	// channel-local code so a later linking pass can find it.
	raw := firstNonEmpty(row.ChannelItemCode, row.ChannelItemName, row.ItemCode, row.ItemName)
	if raw == nil {
		return nil, &domain.ResolutionError{Entity: "item", Cause: errors.New("row carries no item identifier at all")}
	}
	out.RawChannelCode = raw
	if brand != nil {
		out.BrandID = &brand.ID
	}
	return out, nil
}

func (r *Resolver) resolveBrand(ctx context.Context, db *gorm.DB, row *domain.Row) (*catalog.Brand, error) {
	name := deref(row.BrandName)
	code := deref(row.BrandCode)
	if name == "" && code == "" {
		return nil, nil
	}
	token := name
	if token == "" {
		token = code
	}

	if b, ok := r.brands["name:"+name]; ok && name != "" {
		return b, nil
	}
	if b, ok := r.brands["code:"+code]; ok && code != "" {
		return b, nil
	}

	var found *catalog.Brand
	var err error
	if name != "" {
		found, err = r.repo.FindBrandByName(ctx, db, name)
		if err != nil {
			return nil, err
		}
	}
	if found == nil && code != "" {
		found, err = r.repo.FindBrandByCode(ctx, db, code)
		if err != nil {
			return nil, err
		}
	}

	if found != nil {
		// A brand first seen without a code picks one up when a later
		// source supplies it.
		if found.Code == nil && code != "" {
			if err := r.repo.UpdateBrandCode(ctx, db, found.ID, code); err != nil {
				return nil, err
			}
			found.Code = &code
		}
		r.cacheBrand(found)
		return found, nil
	}

	brandCode := code
	if brandCode == "" {
		brandCode = token
	}
	b := &catalog.Brand{
		ID:   r.genID.Generate(),
		Name: token,
		Code: &brandCode,
	}
	if err := r.repo.InsertBrand(ctx, db, b); err != nil {
		return nil, err
	}
	r.created++
	r.cacheBrand(b)
	return b, nil
}

func (r *Resolver) cacheBrand(b *catalog.Brand) {
	r.brands["name:"+b.Name] = b
	if b.Code != nil {
		r.brands["code:"+*b.Code] = b
	}
}

func (r *Resolver) resolveChannel(ctx context.Context, db *gorm.DB, name string) (*catalog.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("channel name is empty")
	}
	if c, ok := r.channels[name]; ok {
		return c, nil
	}

	c, err := r.repo.FindChannelByName(ctx, db, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &catalog.Channel{ID: r.genID.Generate(), Name: name}
		if err := r.repo.InsertChannel(ctx, db, c); err != nil {
			return nil, err
		}
		r.created++
	}
	r.channels[name] = c
	return c, nil
}

func (r *Resolver) resolveItem(ctx context.Context, db *gorm.DB, row *domain.Row, brand *catalog.Brand, channel *catalog.Channel) (*catalog.Item, error) {
	code := deref(row.ItemCode)
	name := deref(row.ItemName)
	aliasCode := deref(row.ChannelItemCode)
	aliasName := deref(row.ChannelItemName)

	if code != "" {
		if it, ok := r.items["code:"+code]; ok {
			return it, nil
		}
		it, err := r.repo.FindItemByCode(ctx, db, code)
		if err != nil {
			return nil, err
		}
		if it != nil {
			r.cacheItem(it)
			return it, nil
		}
	}
	if name != "" {
		if it, ok := r.items["name:"+name]; ok {
			return it, nil
		}
		it, err := r.repo.FindItemByName(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if it != nil {
			r.cacheItem(it)
			return it, nil
		}
	}
	if aliasCode != "" {
		if it, err := r.itemViaAlias(ctx, db, channel, "code:"+aliasCode, func() (*catalog.ChannelItem, error) {
			return r.repo.FindChannelItemByCode(ctx, db, channel.ID, aliasCode)
		}); err != nil || it != nil {
			return it, err
		}
	}
	if aliasName != "" {
		if it, err := r.itemViaAlias(ctx, db, channel, "name:"+aliasName, func() (*catalog.ChannelItem, error) {
			return r.repo.FindChannelItemByName(ctx, db, channel.ID, aliasName)
		}); err != nil || it != nil {
			return it, err
		}
	}

	// Creating an item needs an owning brand and at least one internal
	// identifier; otherwise the row stays unlinked.
	if brand == nil || (code == "" && name == "") {
		return nil, nil
	}
	it := &catalog.Item{
		ID:      r.genID.Generate(),
		BrandID: brand.ID,
	}
	if code != "" {
		it.Code = &code
	}
	if name != "" {
		it.Name = &name
	}
	if err := r.repo.InsertItem(ctx, db, it); err != nil {
		return nil, err
	}
	r.created++
	r.cacheItem(it)
	return it, nil
}

func (r *Resolver) itemViaAlias(ctx context.Context, db *gorm.DB, channel *catalog.Channel, cacheKey string, find func() (*catalog.ChannelItem, error)) (*catalog.Item, error) {
	key := fmt.Sprintf("%d/%s", channel.ID, cacheKey)
	alias, ok := r.aliases[key]
	if !ok {
		var err error
		alias, err = find()
		if err != nil {
			return nil, err
		}
		if alias == nil {
			return nil, nil
		}
		r.aliases[key] = alias
	}

	if it, ok := r.items[fmt.Sprintf("id:%d", alias.ItemID)]; ok {
		return it, nil
	}
	it, err := r.repo.FindItemByID(ctx, db, alias.ItemID)
	if err != nil {
		return nil, err
	}
	if it != nil {
		r.cacheItem(it)
	}
	return it, nil
}

func (r *Resolver) cacheItem(it *catalog.Item) {
	r.items[fmt.Sprintf("id:%d", it.ID)] = it
	if it.Code != nil {
		r.items["code:"+*it.Code] = it
	}
	if it.Name != nil {
		r.items["name:"+*it.Name] = it
	}
}

// ensureAlias records or refreshes the channel-local code/name pair for
// a resolved item so future imports hit the alias path directly.
func (r *Resolver) ensureAlias(ctx context.Context, db *gorm.DB, channel *catalog.Channel, item *catalog.Item, row *domain.Row) error {
	if row.ChannelItemCode == nil && row.ChannelItemName == nil {
		return nil
	}

	alias, err := r.repo.FindChannelItem(ctx, db, channel.ID, item.ID)
	if err != nil {
		return err
	}
	if alias == nil {
		alias = &catalog.ChannelItem{
			ID:          r.genID.Generate(),
			ChannelID:   channel.ID,
			ItemID:      item.ID,
			ChannelCode: row.ChannelItemCode,
			ChannelName: row.ChannelItemName,
		}
		if err := r.repo.InsertChannelItem(ctx, db, alias); err != nil {
			return err
		}
		r.created++
	} else if changed(alias.ChannelCode, row.ChannelItemCode) || changed(alias.ChannelName, row.ChannelItemName) {
		if row.ChannelItemCode != nil {
			alias.ChannelCode = row.ChannelItemCode
		}
		if row.ChannelItemName != nil {
			alias.ChannelName = row.ChannelItemName
		}
		if err := r.repo.UpdateChannelItem(ctx, db, alias); err != nil {
			return err
		}
	}

	if alias.ChannelCode != nil {
		r.aliases[fmt.Sprintf("%d/code:%s", channel.ID, *alias.ChannelCode)] = alias
	}
	if alias.ChannelName != nil {
		r.aliases[fmt.Sprintf("%d/name:%s", channel.ID, *alias.ChannelName)] = alias
	}
	return nil
}

func (r *Resolver) resolveCustomer(ctx context.Context, db *gorm.DB, row *domain.Row, channel *catalog.Channel, brand *catalog.Brand) (*catalog.Customer, error) {
	name := deref(row.CustomerName)
	if name == "" {
		return nil, nil
	}
	key := fmt.Sprintf("%d/%s", channel.ID, name)
	if c, ok := r.customers[key]; ok {
		return c, nil
	}

	c, err := r.repo.FindCustomer(ctx, db, channel.ID, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &catalog.Customer{
			ID:        r.genID.Generate(),
			ChannelID: channel.ID,
			Name:      name,
		}
		if brand != nil {
			c.BrandID = &brand.ID
		}
		if err := r.repo.InsertCustomer(ctx, db, c); err != nil {
			return nil, err
		}
		r.created++
	}
	r.customers[key] = c
	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func changed(current, incoming *string) bool {
	return incoming != nil && (current == nil || *current != *incoming)
}

func firstNonEmpty(ptrs ...*string) *string {
	for _, p := range ptrs {
		if p != nil && strings.TrimSpace(*p) != "" {
			v := strings.TrimSpace(*p)
			return &v
		}
	}
	return nil
}
