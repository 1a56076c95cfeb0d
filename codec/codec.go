// Package codec holds the closed set of codec identifiers a variant can be
// stored under, together with the strings clients use to probe for them.
package codec

import (
	"sort"
	"strings"
)

// ID identifies an encoded representation of a media asset.
type ID string

// Known codec identifiers.
const (
	AACLegacy     ID = "aac-legacy"
	AACHELegacy   ID = "aac-he-legacy"
	AAC           ID = "aac"
	AACHE         ID = "aac-he"
	AACBinaural   ID = "aac-binaural"
	AACDownmix    ID = "aac-downmix"
	AACHEBinaural ID = "aac-he-binaural"
	AACHEDownmix  ID = "aac-he-downmix"
	Atmos         ID = "atmos"
	AC3           ID = "ac3"
	ALAC          ID = "alac"
)

// Default is picked when nothing in the preference list matches a variant set.
const Default = AACLegacy

// defaultOrder is the factory preference ordering, best quality first.
var defaultOrder = []ID{
	ALAC,
	Atmos,
	AC3,
	AACBinaural,
	AAC,
	AACDownmix,
	AACHEBinaural,
	AACHE,
	AACHEDownmix,
	AACLegacy,
	AACHELegacy,
}

// mimeTypes maps every codec to the media type a browser-style playback engine
// would be asked about (MediaSource.isTypeSupported and friends).
var mimeTypes = map[ID]string{
	AACLegacy:     `audio/mp4; codecs="mp4a.40.2"`,
	AACHELegacy:   `audio/mp4; codecs="mp4a.40.5"`,
	AAC:           `audio/mp4; codecs="mp4a.40.2"`,
	AACHE:         `audio/mp4; codecs="mp4a.40.5"`,
	AACBinaural:   `audio/mp4; codecs="mp4a.40.2"`,
	AACDownmix:    `audio/mp4; codecs="mp4a.40.2"`,
	AACHEBinaural: `audio/mp4; codecs="mp4a.40.5"`,
	AACHEDownmix:  `audio/mp4; codecs="mp4a.40.5"`,
	Atmos:         `audio/mp4; codecs="ec-3"`,
	AC3:           `audio/mp4; codecs="ac-3"`,
	ALAC:          `audio/mp4; codecs="alac"`,
}

var known map[ID]bool

func init() {
	known = make(map[ID]bool, len(defaultOrder))
	for _, id := range defaultOrder {
		known[id] = true
	}
}

// All returns the universe of known identifiers in the default preference order.
// The returned slice is a fresh copy.
func All() []ID {
	out := make([]ID, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

// Count is the size of the universe.
func Count() int {
	return len(defaultOrder)
}

// IsKnown reports whether id is a member of the universe.
func (id ID) IsKnown() bool {
	return known[id]
}

func (id ID) String() string {
	return string(id)
}

// MimeType returns the media type used to probe client support for id. Unknown
// identifiers return an empty string.
func (id ID) MimeType() string {
	return mimeTypes[id]
}

// Parse normalizes a user supplied identifier. It does not reject unknown
// identifiers; catalogs may carry variants outside the universe.
func Parse(s string) ID {
	return ID(strings.ToLower(strings.TrimSpace(s)))
}

// Sorted returns ids in lexicographic order.
func Sorted(ids []ID) []ID {
	out := make([]ID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
