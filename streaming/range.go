package streaming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

// ByteRange is an inclusive window [Start, End] into a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes covered by r.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats r for the Content-Range header of a 206 response.
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

func unsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// ParseRange parses a single "bytes=<start>-[<end>]" range against a file of
// size bytes. An end past EOF is clamped to size-1. Suffix ranges, multiple
// ranges, unparsable numbers, start > end and start >= size all yield
// errdefs.ErrMalformedRange.
func ParseRange(header string, size int64) (ByteRange, error) {
	malformed := func(reason string) (ByteRange, error) {
		return ByteRange{}, errors.Wrapf(errdefs.ErrMalformedRange, "%q: %s", header, reason)
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return malformed("unsupported unit")
	}
	ranges := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if strings.Contains(ranges, ",") {
		return malformed("multiple ranges are not supported")
	}

	parts := strings.SplitN(ranges, "-", 2)
	if len(parts) != 2 {
		return malformed("missing '-'")
	}
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])
	if startStr == "" {
		return malformed("suffix ranges are not supported")
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return malformed("invalid start")
	}
	if start >= size {
		return malformed("start beyond end of file")
	}

	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < 0 {
			return malformed("invalid end")
		}
		if end < start {
			return malformed("start after end")
		}
		if end >= size {
			end = size - 1
		}
	}
	return ByteRange{Start: start, End: end}, nil
}
