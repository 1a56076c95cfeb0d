package catalog

import (
	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/resolver"
)

// MediaKind is the binary kind of an asset.
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
	KindImage MediaKind = "image"
)

// Seekable reports whether byte ranges are meaningful for this kind.
func (k MediaKind) Seekable() bool {
	return k == KindAudio || k == KindVideo
}

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	return k == KindAudio || k == KindVideo || k == KindImage
}

// MediaAsset is a track, artist video or artist image.
type MediaAsset struct {
	gorm.Model
	UUID           string `gorm:"unique_index"`
	Name           string
	Kind           MediaKind
	OwnerRef       string
	PreferredCodec *string
	Variants       []CodecVariant
}

// BeforeCreate assigns the asset a UUID.
func (a *MediaAsset) BeforeCreate() error {
	if a.UUID == "" {
		a.UUID = uuid.NewV4().String()
	}
	return nil
}

// LogFields defines some standard fields to include in logs.
func (a *MediaAsset) LogFields() log.Fields {
	return log.Fields{"asset": a.UUID, "name": a.Name, "kind": a.Kind}
}

// Preferred returns the preferred codec or "".
func (a *MediaAsset) Preferred() codec.ID {
	if a.PreferredCodec == nil {
		return ""
	}
	return codec.ID(*a.PreferredCodec)
}

// VariantSet returns the asset's variants keyed by codec.
func (a *MediaAsset) VariantSet() resolver.VariantSet {
	set := make(resolver.VariantSet, len(a.Variants))
	for _, v := range a.Variants {
		set[codec.ID(v.Codec)] = v.Locator
	}
	return set
}

// Variant returns the variant stored under id.
func (a *MediaAsset) Variant(id codec.ID) (CodecVariant, bool) {
	for _, v := range a.Variants {
		if codec.ID(v.Codec) == id {
			return v, true
		}
	}
	return CodecVariant{}, false
}

// CodecVariant is one encoded representation of an asset.
type CodecVariant struct {
	gorm.Model
	MediaAssetID uint   `gorm:"unique_index:idx_asset_codec"`
	Codec        string `gorm:"unique_index:idx_asset_codec"`
	Locator      string
	Size         int64
}

// CodecPreference is one row of the persisted preference ordering.
type CodecPreference struct {
	ID       uint `gorm:"primary_key"`
	Position int
	Codec    string `gorm:"unique_index"`
}
