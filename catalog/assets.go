package catalog

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

// CreateAsset persists a new asset together with any variants set on it.
func CreateAsset(asset *MediaAsset) error {
	if !asset.Kind.Valid() {
		return errors.Errorf("invalid media kind %q", asset.Kind)
	}
	return db.Create(asset).Error
}

// FindAssetByUUID loads an asset and its variants.
func FindAssetByUUID(assetUUID string) (*MediaAsset, error) {
	var asset MediaAsset
	err := db.Preload("Variants").Where("uuid = ?", assetUUID).First(&asset).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, errors.Wrapf(errdefs.ErrNotFound, "asset %s", assetUUID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load asset %s", assetUUID)
	}
	return &asset, nil
}

// FindAssetByName loads the asset with the given name.
func FindAssetByName(name string) (*MediaAsset, error) {
	var asset MediaAsset
	err := db.Preload("Variants").Where("name = ?", name).First(&asset).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, errors.Wrapf(errdefs.ErrNotFound, "asset named %s", name)
	}
	return &asset, err
}

// AllAssets returns every asset with its variants, ordered by name.
func AllAssets() ([]MediaAsset, error) {
	var assets []MediaAsset
	err := db.Preload("Variants").Order("name").Find(&assets).Error
	return assets, err
}

// FindOrCreateAsset returns the asset called name, creating it with kind if it
// does not exist yet.
func FindOrCreateAsset(name string, kind MediaKind, ownerRef string) (*MediaAsset, error) {
	asset, err := FindAssetByName(name)
	if err == nil {
		return asset, nil
	}
	if !errdefs.IsNotFound(err) {
		return nil, err
	}

	asset = &MediaAsset{Name: name, Kind: kind, OwnerRef: ownerRef}
	if err := CreateAsset(asset); err != nil {
		return nil, errors.Wrapf(err, "failed to create asset %s", name)
	}
	log.WithFields(asset.LogFields()).Infoln("added media asset")
	return asset, nil
}

// UpsertVariant stores the variant id of asset, replacing any previous locator
// and size recorded for it.
func UpsertVariant(asset *MediaAsset, id codec.ID, locator string, size int64) (*CodecVariant, error) {
	var variant CodecVariant
	err := db.Where(CodecVariant{MediaAssetID: asset.ID, Codec: string(id)}).
		Assign(CodecVariant{Locator: locator, Size: size}).
		FirstOrCreate(&variant).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store %s variant of %s", id, asset.UUID)
	}
	if !id.IsKnown() {
		log.WithFields(asset.LogFields()).WithField("codec", id).
			Debugln("stored variant with codec outside the known universe")
	}
	return &variant, nil
}

// DeleteVariantsByLocator removes the variants stored at locator and returns
// how many were removed.
func DeleteVariantsByLocator(locator string) (int64, error) {
	res := db.Unscoped().Where("locator = ?", locator).Delete(&CodecVariant{})
	return res.RowsAffected, res.Error
}

// SetPreferredCodec persists id as the preferred codec of the asset. id must be
// one of the asset's variants; otherwise nothing changes and
// errdefs.ErrInvalidCodec is returned.
func SetPreferredCodec(assetUUID string, id codec.ID) (*MediaAsset, error) {
	asset, err := FindAssetByUUID(assetUUID)
	if err != nil {
		return nil, err
	}
	if !asset.VariantSet().Has(id) {
		return nil, errors.Wrapf(errdefs.ErrInvalidCodec, "asset %s has no %q variant", assetUUID, id)
	}

	value := string(id)
	if err := db.Model(asset).UpdateColumn("preferred_codec", value).Error; err != nil {
		return nil, errors.Wrap(err, "failed to store preferred codec")
	}
	asset.PreferredCodec = &value
	log.WithFields(asset.LogFields()).WithField("codec", id).Infoln("preferred codec updated")
	return asset, nil
}

// ClearPreferredCodec removes the preferred codec so resolution falls back to
// the preference list.
func ClearPreferredCodec(assetUUID string) (*MediaAsset, error) {
	asset, err := FindAssetByUUID(assetUUID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(asset).UpdateColumn("preferred_codec", gorm.Expr("NULL")).Error; err != nil {
		return nil, errors.Wrap(err, "failed to clear preferred codec")
	}
	asset.PreferredCodec = nil
	return asset, nil
}
