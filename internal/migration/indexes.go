package migration

import (
	"fmt"

	"gorm.io/gorm"
)

// factNaturalKeyIndexes are the partial unique indexes backing the two
// revenue fact natural keys: one for facts linked to an item, one for
// facts carrying only a raw channel code. COALESCE folds the nullable
// customer column into the key so two facts without a customer still
// collide.
var factNaturalKeyIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_revenue_fact_linked
		ON revenue_facts (date, channel_id, item_id, COALESCE(customer_id, 0))
		WHERE item_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_revenue_fact_unlinked
		ON revenue_facts (date, channel_id, raw_channel_code, COALESCE(customer_id, 0))
		WHERE item_id IS NULL`,
}

// EnsureFactNaturalKeyIndexes creates the fact natural-key indexes on
// dialects that take the model-derived schema. AutoMigrate cannot express
// partial or expression indexes, so they are issued as raw DDL. MySQL
// supports neither, so there the application's find-before-write is the
// only guard.
func EnsureFactNaturalKeyIndexes(conn *gorm.DB) error {
	if conn.Dialector.Name() == "mysql" {
		return nil
	}
	for _, stmt := range factNaturalKeyIndexes {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create fact natural key index: %w", err)
		}
	}
	return nil
}
