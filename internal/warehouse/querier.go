package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brandwell/revenuehub/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/fx"
)

// Record is one raw warehouse row, columns still unparsed. Field order
// mirrors the fixed select list below.
type Record struct {
	Revenue  string
	Units    string
	Brand    string
	Date     string
	ItemCode string
	Channel  string
	Customer string
}

// Querier pulls raw sales records from the remote analytics store.
// A nil since pulls full history; otherwise only rows after it.
type Querier interface {
	Fetch(ctx context.Context, since *time.Time) ([]Record, error)
}

// ErrNotConfigured is returned when no warehouse DSN is set.
var ErrNotConfigured = errors.New("warehouse DSN not configured")

type sqlQuerier struct {
	db    *sql.DB
	table string
}

// NewQuerier opens the warehouse connection when a DSN is configured.
// Without one, a querier that always refuses is returned so the rest
// of the application still starts.
func NewQuerier(lc fx.Lifecycle, cfg config.Config) (Querier, error) {
	if cfg.WarehouseDSN == "" {
		return disabledQuerier{}, nil
	}

	db, err := sql.Open("pgx", cfg.WarehouseDSN)
	if err != nil {
		return nil, fmt.Errorf("open warehouse connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return &sqlQuerier{db: db, table: cfg.WarehouseTable}, nil
}

func (q *sqlQuerier) Fetch(ctx context.Context, since *time.Time) ([]Record, error) {
	query := fmt.Sprintf(
		"SELECT revenue, units, brand, date, item_code, channel, customer FROM %s", q.table)
	var args []any
	if since != nil {
		query += " WHERE date > $1"
		args = append(args, *since)
	}
	query += " ORDER BY date"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var revenue, units, brand, date, itemCode, channel, customer sql.NullString
		if err := rows.Scan(&revenue, &units, &brand, &date, &itemCode, &channel, &customer); err != nil {
			return nil, err
		}
		r.Revenue = revenue.String
		r.Units = units.String
		r.Brand = brand.String
		r.Date = date.String
		r.ItemCode = itemCode.String
		r.Channel = channel.String
		r.Customer = customer.String
		out = append(out, r)
	}
	return out, rows.Err()
}

type disabledQuerier struct{}

func (disabledQuerier) Fetch(context.Context, *time.Time) ([]Record, error) {
	return nil, ErrNotConfigured
}
