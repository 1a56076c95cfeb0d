package codec

import (
	"path/filepath"
	"strings"
)

// streamNamePatterns maps stream/file name fragments to codecs. Longer, more
// specific fragments are checked first.
var streamNamePatterns = []struct {
	fragment string
	id       ID
}{
	{"audio-he-stereo-64-binaural", AACHEBinaural},
	{"audio-he-stereo-64-downmix", AACHEDownmix},
	{"audio-stereo-256-binaural", AACBinaural},
	{"audio-stereo-256-downmix", AACDownmix},
	{"audio-he-stereo-64", AACHE},
	{"audio-stereo-256", AAC},
	{"audio-alac-stereo", ALAC},
	{"audio-atmos", Atmos},
	{"audio-ac3", AC3},
}

// FromFileName derives a codec from a variant file name. Files are expected to
// be named after their codec ("alac.m4a") or after the HLS stream they were cut
// from ("audio-stereo-256-binaural.m4a"). ok is false if nothing matched.
func FromFileName(name string) (id ID, ok bool) {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))

	if candidate := ID(base); candidate.IsKnown() {
		return candidate, true
	}
	for _, p := range streamNamePatterns {
		if strings.Contains(base, p.fragment) {
			return p.id, true
		}
	}
	return "", false
}

// FromSampleEntry maps an MP4 sample entry box type (the child of stsd) to a
// codec. AAC variants are indistinguishable at this level, so mp4a maps to the
// plain aac identifier.
func FromSampleEntry(boxType string) (ID, bool) {
	switch boxType {
	case "alac":
		return ALAC, true
	case "ec-3":
		return Atmos, true
	case "ac-3":
		return AC3, true
	case "mp4a":
		return AAC, true
	}
	return "", false
}

// VisualFromSampleEntry names video representations that live outside the
// audio universe. They are stored but never preferred by resolution.
func VisualFromSampleEntry(boxType string) (ID, bool) {
	switch boxType {
	case "avc1", "avc3":
		return "h264", true
	case "hvc1", "hev1":
		return "hevc", true
	}
	return "", false
}
