package catalog

import (
	"github.com/pkg/errors"

	"gitlab.com/olaris/olaris-variants/codec"
)

// PreferenceStore persists the codec preference ordering in the catalog.
type PreferenceStore struct{}

// LoadPreferences returns the stored ordering, empty if none was stored yet.
func (PreferenceStore) LoadPreferences() ([]codec.ID, error) {
	var rows []CodecPreference
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}
	order := make([]codec.ID, 0, len(rows))
	for _, r := range rows {
		order = append(order, codec.ID(r.Codec))
	}
	return order, nil
}

// SavePreferences replaces the stored ordering in one transaction.
func (PreferenceStore) SavePreferences(order []codec.ID) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Delete(&CodecPreference{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to clear preferences")
	}
	for i, id := range order {
		if err := tx.Create(&CodecPreference{Position: i, Codec: string(id)}).Error; err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to store preference %s", id)
		}
	}
	return tx.Commit().Error
}
