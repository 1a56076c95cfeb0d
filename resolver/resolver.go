// Package resolver picks the one variant of an asset that should be delivered.
package resolver

import (
	"github.com/pkg/errors"

	"gitlab.com/olaris/olaris-variants/capability"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

// VariantSet maps the codecs an asset is available in to their storage handles.
type VariantSet map[codec.ID]string

// Has reports whether id is a key of the set.
func (s VariantSet) Has(id codec.ID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the keys of the set in lexicographic order.
func (s VariantSet) IDs() []codec.ID {
	ids := make([]codec.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return codec.Sorted(ids)
}

// Resolve chooses a codec from set. The first rule that matches wins:
//
//  1. a non-empty override that is a key of set, regardless of capabilities;
//  2. the first preference entry present in set and supported by caps;
//  3. the first preference entry present in set, ignoring caps;
//  4. codec.Default if present, else the smallest key of set.
//
// A nil caps counts every codec as supported. Resolve has no side effects.
func Resolve(set VariantSet, override codec.ID, prefs []codec.ID, caps capability.Map) (codec.ID, error) {
	if len(set) == 0 {
		return "", errdefs.ErrNoVariantsAvailable
	}

	if override != "" {
		if !set.Has(override) {
			return "", errors.Wrapf(errdefs.ErrInvalidCodec, "codec %q is not a variant of this asset", override)
		}
		return override, nil
	}

	for _, id := range prefs {
		if set.Has(id) && caps.Supports(id) {
			return id, nil
		}
	}

	for _, id := range prefs {
		if set.Has(id) {
			return id, nil
		}
	}

	if set.Has(codec.Default) {
		return codec.Default, nil
	}

	// Prefer known codecs over stored-but-unknown ones before falling back to
	// plain key order.
	ids := set.IDs()
	for _, id := range ids {
		if id.IsKnown() {
			return id, nil
		}
	}
	return ids[0], nil
}
