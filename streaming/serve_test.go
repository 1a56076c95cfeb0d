package streaming

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

func testData(n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(b)
	return b
}

func serveRecorded(t *testing.T, s *Server, method, rangeHeader string, c Content) (*httptest.ResponseRecorder, error) {
	t.Helper()
	r := httptest.NewRequest(method, "/media/x/stream", nil)
	if rangeHeader != "" {
		r.Header.Set("Range", rangeHeader)
	}
	w := httptest.NewRecorder()
	_, err := s.Serve(w, r, c)
	return w, err
}

func audio(data []byte) Content {
	return Content{Reader: bytes.NewReader(data), Size: int64(len(data)), ContentType: "audio/mp4", Seekable: true}
}

func TestServeFull(t *testing.T) {
	data := testData(1000)
	w, err := serveRecorded(t, NewServer(DefaultOptions()), http.MethodGet, "", audio(data))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", w.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "audio/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, cacheControl, w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Content-Range"))
	assert.Equal(t, data, w.Body.Bytes())
}

func TestServePartial(t *testing.T) {
	data := testData(1000)
	s := NewServer(Options{ChunkSize: 7, StrictRanges: true})

	w, err := serveRecorded(t, s, http.MethodGet, "bytes=0-99", audio(data))
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 0-99/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, "100", w.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, data[:100], w.Body.Bytes())

	w, err = serveRecorded(t, s, http.MethodGet, "bytes=500-", audio(data))
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 500-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, "500", w.Header().Get("Content-Length"))
	assert.Equal(t, data[500:], w.Body.Bytes())
}

func TestServeImageIgnoresRange(t *testing.T) {
	data := testData(300)
	image := Content{Reader: bytes.NewReader(data), Size: 300, ContentType: "image/png"}

	w, err := serveRecorded(t, NewServer(DefaultOptions()), http.MethodGet, "bytes=0-9", image)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "300", w.Header().Get("Content-Length"))
	assert.Equal(t, data, w.Body.Bytes())

	// Even a garbage header is ignored for images.
	w, err = serveRecorded(t, NewServer(DefaultOptions()), http.MethodGet, "bytes=x", image)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)

	opts := DefaultOptions()
	opts.ImageRanges = true
	w, err = serveRecorded(t, NewServer(opts), http.MethodGet, "bytes=0-9", image)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, data[:10], w.Body.Bytes())
}

func TestServeMalformedRange(t *testing.T) {
	data := testData(1000)
	for _, header := range []string{"bytes=100-50", "bytes=1000-", "bytes=abc-", "bytes=-10", "bytes=0-1,5-6"} {
		t.Run(header, func(t *testing.T) {
			w, err := serveRecorded(t, NewServer(DefaultOptions()), http.MethodGet, header, audio(data))
			assert.True(t, errors.Is(err, errdefs.ErrMalformedRange))
			assert.Equal(t, "bytes */1000", w.Header().Get("Content-Range"))
			assert.False(t, w.Flushed)
			assert.Zero(t, w.Body.Len(), "nothing may be written before the caller answers 416")
		})
	}
}

func TestServeLenientRanges(t *testing.T) {
	data := testData(1000)
	opts := DefaultOptions()
	opts.StrictRanges = false

	w, err := serveRecorded(t, NewServer(opts), http.MethodGet, "bytes=100-50", audio(data))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data, w.Body.Bytes())
}

func TestServeHead(t *testing.T) {
	data := testData(1000)
	s := NewServer(DefaultOptions())

	w, err := serveRecorded(t, s, http.MethodHead, "", audio(data))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", w.Header().Get("Content-Length"))
	assert.Zero(t, w.Body.Len())

	w, err = serveRecorded(t, s, http.MethodHead, "bytes=10-19", audio(data))
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "10", w.Header().Get("Content-Length"))
	assert.Zero(t, w.Body.Len())
}

func TestServeEmptyFile(t *testing.T) {
	w, err := serveRecorded(t, NewServer(DefaultOptions()), http.MethodGet, "", audio(nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("Content-Length"))
}

type cancellingReader struct {
	io.ReaderAt
	cancel context.CancelFunc
	reads  int
}

func (c *cancellingReader) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	c.cancel()
	return c.ReaderAt.ReadAt(p, off)
}

func TestServeStopsWhenClientGoesAway(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	data := testData(1000)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &cancellingReader{ReaderAt: bytes.NewReader(data), cancel: cancel}

	r := httptest.NewRequest(http.MethodGet, "/media/x/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	n, err := NewServer(Options{ChunkSize: 100}).Serve(w, r, Content{
		Reader: reader, Size: 1000, ContentType: "video/mp4", Seekable: true,
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 100, n)
	assert.Equal(t, 1, reader.reads, "no reads may happen after cancellation")
	assert.Equal(t, data[:100], w.Body.Bytes())
}

type failingReader struct{}

func (failingReader) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("disk on fire")
}

// statusRecorder remembers every status line Serve commits.
type statusRecorder struct {
	*httptest.ResponseRecorder
	statuses []int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.statuses = append(w.statuses, code)
	w.ResponseRecorder.WriteHeader(code)
}

func TestServeReadFailure(t *testing.T) {
	w := &statusRecorder{ResponseRecorder: httptest.NewRecorder()}
	r := httptest.NewRequest(http.MethodGet, "/media/x/stream", nil)
	n, err := NewServer(DefaultOptions()).Serve(w, r, Content{
		Reader: failingReader{}, Size: 10, ContentType: "audio/mp4", Seekable: true,
	})

	assert.True(t, errors.Is(err, errdefs.ErrIOFailure))
	assert.True(t, Uncommitted(err))
	assert.EqualValues(t, 0, n)
	assert.Empty(t, w.statuses, "nothing may be committed before the first read succeeds")
	assert.Empty(t, w.Header().Get("Content-Length"))

	writeError(w, err)
	assert.Equal(t, []int{http.StatusInternalServerError}, w.statuses)
	assert.Contains(t, w.Body.String(), `"error":"IOFailure"`)
}

// failingAfter serves the first limit bytes, then fails.
type failingAfter struct {
	io.ReaderAt
	limit int64
}

func (f failingAfter) ReadAt(p []byte, off int64) (int, error) {
	if off >= f.limit {
		return 0, errors.New("disk on fire")
	}
	return f.ReaderAt.ReadAt(p, off)
}

func TestServeReadFailureMidBody(t *testing.T) {
	data := testData(1000)
	w := &statusRecorder{ResponseRecorder: httptest.NewRecorder()}
	r := httptest.NewRequest(http.MethodGet, "/media/x/stream", nil)
	n, err := NewServer(Options{ChunkSize: 100}).Serve(w, r, Content{
		Reader: failingAfter{ReaderAt: bytes.NewReader(data), limit: 100}, Size: 1000, ContentType: "audio/mp4", Seekable: true,
	})

	assert.True(t, errors.Is(err, errdefs.ErrIOFailure))
	assert.False(t, Uncommitted(err))
	assert.EqualValues(t, 100, n)
	assert.Equal(t, []int{http.StatusOK}, w.statuses)
	assert.Equal(t, data[:100], w.Body.Bytes())
}

func TestConcurrentDisjointRanges(t *testing.T) {
	data := testData(4 << 20)
	s := NewServer(Options{ChunkSize: 32 * 1024, WriteTimeout: 5 * time.Second, StrictRanges: true})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Serve(w, r, Content{Reader: bytes.NewReader(data), Size: int64(len(data)), ContentType: "video/mp4", Seekable: true})
	}))
	defer srv.Close()

	windows := []ByteRange{{0, 2<<20 - 1}, {2 << 20, 4<<20 - 1}, {1000, 1999}, {3 << 20, 3<<20 + 65535}}
	results := make([][]byte, len(windows))

	var g errgroup.Group
	for i, win := range windows {
		i, win := i, win
		g.Go(func() error {
			req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", win.Start, win.End))
			resp, err := srv.Client().Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusPartialContent {
				return errors.Errorf("window %d: status %d", i, resp.StatusCode)
			}
			results[i], err = ioutil.ReadAll(resp.Body)
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, win := range windows {
		assert.Equal(t, data[win.Start:win.End+1], results[i], "window %d", i)
	}
}
