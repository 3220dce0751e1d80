package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/pkg/metrics"
)

const startKey = "bloodbank:query_start"

func beforeStatement(tx *gorm.DB) { tx.InstanceSet(startKey, time.Now()) }

func afterStatement(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if v, ok := tx.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				metrics.ObserveDBQuery(op, start)
			}
		}
	}
}

// instrument times every gorm statement into metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	cb := db.Callback()
	regs := []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", beforeStatement),
		cb.Create().After("gorm:create").Register("metrics:after_create", afterStatement("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", beforeStatement),
		cb.Query().After("gorm:query").Register("metrics:after_query", afterStatement("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", beforeStatement),
		cb.Update().After("gorm:update").Register("metrics:after_update", afterStatement("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", beforeStatement),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", afterStatement("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", beforeStatement),
		cb.Row().After("gorm:row").Register("metrics:after_row", afterStatement("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", beforeStatement),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", afterStatement("raw")),
	}
	for _, err := range regs {
		if err != nil {
			return errors.Wrap(err, "database: register metrics callback")
		}
	}
	return nil
}
