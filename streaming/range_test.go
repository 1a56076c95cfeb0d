package streaming

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		header string
		want   ByteRange
	}{
		{"bytes=0-99", ByteRange{0, 99}},
		{"bytes=500-", ByteRange{500, 999}},
		{"bytes=999-999", ByteRange{999, 999}},
		{"bytes=900-5000", ByteRange{900, 999}},
		{"bytes= 10 - 20", ByteRange{10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseRange(tt.header, 1000)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeMalformed(t *testing.T) {
	for _, header := range []string{
		"",
		"items=0-1",
		"bytes=abc-10",
		"bytes=0-xyz",
		"bytes=100-50",
		"bytes=1000-",
		"bytes=2000-3000",
		"bytes=-100",
		"bytes=0-10,20-30",
		"bytes=10",
		"bytes=-1-5",
	} {
		t.Run(header, func(t *testing.T) {
			_, err := ParseRange(header, 1000)
			assert.True(t, errors.Is(err, errdefs.ErrMalformedRange), "got %v", err)
		})
	}
}

func TestByteRange(t *testing.T) {
	r := ByteRange{Start: 0, End: 99}
	assert.EqualValues(t, 100, r.Length())
	assert.Equal(t, "bytes 0-99/1000", r.ContentRange(1000))
	assert.Equal(t, "bytes */1000", unsatisfiedContentRange(1000))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentType("/a/b/h264.mp4"))
	assert.Equal(t, "video/mp4", ContentType("CLIP.MP4"))
	assert.Equal(t, "image/jpeg", ContentType("cover.jpg"))
	assert.Equal(t, "image/jpeg", ContentType("cover.jpeg"))
	assert.Equal(t, "image/png", ContentType("cover.png"))
	assert.Equal(t, "audio/mp4", ContentType("alac.m4a"))
	assert.Equal(t, "application/octet-stream", ContentType("track.flac"))
	assert.Equal(t, "application/octet-stream", ContentType("noext"))
}
