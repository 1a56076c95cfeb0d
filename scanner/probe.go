package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
)

var mediaExtensions = map[string]catalog.MediaKind{
	".m4a":  catalog.KindAudio,
	".mp4":  catalog.KindVideo,
	".jpg":  catalog.KindImage,
	".jpeg": catalog.KindImage,
	".png":  catalog.KindImage,
}

// ValidFile reports whether path looks like a variant file.
func ValidFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// sampleEntries lists the stsd children of the first audio and the first
// visual track of an MP4 file.
type sampleEntries struct {
	audio  codec.ID
	visual codec.ID
}

func probeMP4(path string) (sampleEntries, error) {
	var found sampleEntries

	f, err := os.Open(path)
	if err != nil {
		return found, err
	}
	defer f.Close()

	_, err = mp4.ReadBoxStructure(f, func(h *mp4.ReadHandle) (interface{}, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeMdia(),
			mp4.BoxTypeMinf(), mp4.BoxTypeStbl(), mp4.BoxTypeStsd():
			return h.Expand()
		}

		name := h.BoxInfo.Type.String()
		if id, ok := codec.FromSampleEntry(name); ok && found.audio == "" {
			found.audio = id
		}
		if id, ok := codec.VisualFromSampleEntry(name); ok && found.visual == "" {
			found.visual = id
		}
		return nil, nil
	})
	if err != nil {
		return found, errors.Wrapf(err, "failed to read MP4 structure of %s", path)
	}
	return found, nil
}

// classify works out the codec and kind of one variant file. The file name
// wins; MP4 files that are not named after a codec are probed. As a last
// resort the file name itself becomes the codec id.
func classify(path string) (codec.ID, catalog.MediaKind) {
	ext := strings.ToLower(filepath.Ext(path))
	kind := mediaExtensions[ext]
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	if kind == catalog.KindImage {
		if ext == ".jpg" {
			ext = ".jpeg"
		}
		return codec.ID(strings.TrimPrefix(ext, ".")), kind
	}

	if id, ok := codec.FromFileName(path); ok {
		return id, catalog.KindAudio
	}

	entries, err := probeMP4(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debugln("could not probe file, falling back to its name")
	}
	switch {
	case entries.visual != "":
		return entries.visual, catalog.KindVideo
	case entries.audio != "":
		return entries.audio, catalog.KindAudio
	}
	return codec.ID(base), kind
}
