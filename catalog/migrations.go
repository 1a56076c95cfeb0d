package catalog

import (
	"github.com/jinzhu/gorm"
	"gopkg.in/gormigrate.v1"
)

func migrate(database *gorm.DB) error {
	m := gormigrate.New(database, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202610150001_create_catalog",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&MediaAsset{}, &CodecVariant{}, &CodecPreference{}).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.DropTableIfExists(&CodecPreference{}, &CodecVariant{}, &MediaAsset{}).Error
			},
		},
		{
			ID: "202610150002_variant_locator_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Model(&CodecVariant{}).AddIndex("idx_variant_locator", "locator").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Model(&CodecVariant{}).RemoveIndex("idx_variant_locator").Error
			},
		},
	})
	return m.Migrate()
}
