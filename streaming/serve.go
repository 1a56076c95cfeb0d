package streaming

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

const (
	DefaultChunkSize    = 64 * 1024
	DefaultWriteTimeout = 30 * time.Second

	cacheControl = "public, max-age=31536000, immutable"
)

// Options tune how files are streamed.
type Options struct {
	// ChunkSize is the size of the copy buffer, the most bytes held per stream.
	ChunkSize int
	// WriteTimeout bounds each chunk write. Zero disables the deadline.
	WriteTimeout time.Duration
	// StrictRanges answers malformed ranges with 416. Otherwise they are
	// served as a full response.
	StrictRanges bool
	// ImageRanges honours Range headers for non-seekable kinds too.
	ImageRanges bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    DefaultChunkSize,
		WriteTimeout: DefaultWriteTimeout,
		StrictRanges: true,
	}
}

// Server writes files as full or partial HTTP responses.
type Server struct {
	opts        Options
	bufs        sync.Pool
	noDeadlines sync.Once
}

func NewServer(opts Options) *Server {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	s := &Server{opts: opts}
	s.bufs.New = func() interface{} {
		b := make([]byte, s.opts.ChunkSize)
		return &b
	}
	return s
}

// Content describes what is being streamed.
type Content struct {
	Reader      io.ReaderAt
	Size        int64
	ContentType string
	// Seekable kinds honour Range headers.
	Seekable bool
}

// uncommittedError marks a failure that happened before the status line was
// written, so the caller can still answer with an error response.
type uncommittedError struct{ error }

func (e uncommittedError) Unwrap() error { return e.error }

// Uncommitted reports whether err was returned by Serve before anything was
// written to the client.
func Uncommitted(err error) bool {
	var u uncommittedError
	return errors.As(err, &u)
}

// Serve writes c as a response to r. Range errors and a failing first read are
// returned before anything is written (see Uncommitted); for a 416 the
// Content-Range header is already set. Any other error happened mid-body and
// the response is truncated.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, c Content) (int64, error) {
	rng := ByteRange{Start: 0, End: c.Size - 1}
	partial := false

	if header := r.Header.Get("Range"); header != "" && (c.Seekable || s.opts.ImageRanges) {
		parsed, err := ParseRange(header, c.Size)
		switch {
		case err == nil:
			rng, partial = parsed, true
		case s.opts.StrictRanges:
			w.Header().Set("Content-Range", unsatisfiedContentRange(c.Size))
			return 0, uncommittedError{err}
		default:
			log.WithFields(log.Fields{"range": header, "size": c.Size}).Debugln("ignoring malformed range")
		}
	}

	mode := "full"
	status := http.StatusOK
	length := c.Size
	if partial {
		mode = "partial"
		status = http.StatusPartialContent
		length = rng.Length()
	}
	if r.Method == http.MethodHead {
		mode = "head"
	}

	src := io.NewSectionReader(c.Reader, rng.Start, length)
	var buf []byte
	pending := 0
	if mode != "head" && length > 0 {
		bp := s.bufs.Get().(*[]byte)
		defer s.bufs.Put(bp)
		buf = *bp

		// Nothing is committed until the first chunk is in hand.
		n, err := src.Read(buf)
		if err != nil && err != io.EOF {
			return 0, uncommittedError{errors.Wrapf(errdefs.ErrIOFailure, "read failed: %s", err)}
		}
		pending = n
	}

	h := w.Header()
	h.Set("Content-Type", c.ContentType)
	h.Set("Accept-Ranges", "bytes")
	h.Set("Cache-Control", cacheControl)
	if partial {
		h.Set("Content-Range", rng.ContentRange(c.Size))
	}
	h.Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(status)

	streamRequests.WithLabelValues(mode).Inc()
	if buf == nil {
		return 0, nil
	}

	activeStreams.Inc()
	defer activeStreams.Dec()

	n, err := s.copy(r.Context(), w, src, buf, pending)
	streamedBytes.Add(float64(n))
	return n, err
}

// copy writes the pending bytes already in buf, then moves the rest of src to
// w one chunk at a time, checking ctx between chunks and giving each write its
// own deadline.
func (s *Server) copy(ctx context.Context, w http.ResponseWriter, src io.Reader, buf []byte, pending int) (int64, error) {
	rc := http.NewResponseController(w)
	deadlines := s.opts.WriteTimeout > 0
	if deadlines {
		defer rc.SetWriteDeadline(time.Time{})
	}

	var written int64
	nr := pending
	for {
		if nr > 0 {
			if deadlines {
				if err := rc.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
					s.noDeadlines.Do(func() {
						log.WithError(err).Warnln("response writer does not support write deadlines, slow clients are not bounded")
					})
					deadlines = false
				}
			}
			nw, werr := w.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, errors.Wrap(werr, "client write failed")
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}

		if err := ctx.Err(); err != nil {
			return written, err
		}

		var rerr error
		nr, rerr = src.Read(buf)
		if rerr == io.EOF {
			if nr == 0 {
				return written, nil
			}
			continue
		}
		if rerr != nil {
			return written, errors.Wrapf(errdefs.ErrIOFailure, "read failed: %s", rerr)
		}
	}
}
