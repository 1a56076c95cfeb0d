package scanner

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

func box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	b := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(b, uint32(8+len(body)))
	copy(b[4:], typ)
	return append(b, body...)
}

// mp4With builds a minimal MP4 whose only track has the given sample entry.
func mp4With(sampleEntry string) []byte {
	stsd := box("stsd", []byte{0, 0, 0, 0, 0, 0, 0, 1}, box(sampleEntry))
	moov := box("moov", box("trak", box("mdia", box("minf", box("stbl", stsd)))))
	return append(box("ftyp", []byte("M4A \x00\x00\x00\x00")), moov...)
}

func writeFile(t *testing.T, root, rel string, data []byte) string {
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, ioutil.WriteFile(p, data, 0644))
	return p
}

func setupLibrary(t *testing.T) (string, *Importer) {
	dbc, err := catalog.NewDb(catalog.DatabaseOptions{Connection: catalog.InMemory})
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })

	root := t.TempDir()
	writeFile(t, root, "Artist/Album/Track One/alac.m4a", bytes.Repeat([]byte{1}, 300))
	writeFile(t, root, "Artist/Album/Track One/aac-legacy.m4a", bytes.Repeat([]byte{2}, 100))
	writeFile(t, root, "Artist/Album/Track One/probed.m4a", mp4With("ec-3"))
	writeFile(t, root, "Artist/Album/Track One/cover.jpg", []byte("jpeg"))
	writeFile(t, root, "Artist/Video/h264.mp4", []byte("not really an mp4"))
	writeFile(t, root, "Artist/Image/artist.png", []byte("png"))
	writeFile(t, root, ".hidden/alac.m4a", []byte("x"))
	writeFile(t, root, "notes.txt", []byte("x"))

	i := NewImporter(root, 2)
	t.Cleanup(i.Shutdown)
	return root, i
}

func TestProbeMP4(t *testing.T) {
	dir := t.TempDir()
	for entry, want := range map[string]sampleEntries{
		"alac": {audio: codec.ALAC},
		"ec-3": {audio: codec.Atmos},
		"ac-3": {audio: codec.AC3},
		"mp4a": {audio: codec.AAC},
		"avc1": {visual: "h264"},
		"hvc1": {visual: "hevc"},
	} {
		p := writeFile(t, dir, entry+".bin", mp4With(entry))
		got, err := probeMP4(p)
		require.NoError(t, err, entry)
		assert.Equal(t, want, got, entry)
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	id, kind := classify(writeFile(t, dir, "audio-stereo-256-binaural.m4a", []byte("x")))
	assert.Equal(t, codec.AACBinaural, id)
	assert.Equal(t, catalog.KindAudio, kind)

	id, kind = classify(writeFile(t, dir, "clip.mp4", mp4With("avc1")))
	assert.Equal(t, codec.ID("h264"), id)
	assert.Equal(t, catalog.KindVideo, kind)

	id, kind = classify(writeFile(t, dir, "cover.JPG", []byte("x")))
	assert.Equal(t, codec.ID("jpeg"), id)
	assert.Equal(t, catalog.KindImage, kind)

	id, kind = classify(writeFile(t, dir, "mystery.m4a", []byte("x")))
	assert.Equal(t, codec.ID("mystery"), id)
	assert.Equal(t, catalog.KindAudio, kind)
}

func TestImport(t *testing.T) {
	root, i := setupLibrary(t)

	res, err := i.Import()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assets)
	assert.Equal(t, 5, res.Variants)
	assert.Equal(t, 1, res.Skipped)

	track, err := catalog.FindAssetByName("Artist/Album/Track One")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindAudio, track.Kind)
	assert.Equal(t, "Artist/Album", track.OwnerRef)
	assert.Equal(t, []codec.ID{codec.AACLegacy, codec.ALAC, codec.Atmos}, track.VariantSet().IDs())

	alac, ok := track.Variant(codec.ALAC)
	require.True(t, ok)
	assert.Equal(t, "local#"+filepath.Join(root, "Artist/Album/Track One/alac.m4a"), alac.Locator)
	assert.EqualValues(t, 300, alac.Size)

	video, err := catalog.FindAssetByName("Artist/Video")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindVideo, video.Kind)
	assert.True(t, video.VariantSet().Has("h264"))

	image, err := catalog.FindAssetByName("Artist/Image")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindImage, image.Kind)
	assert.True(t, image.VariantSet().Has("png"))

	// A second run changes nothing.
	_, err = i.Import()
	require.NoError(t, err)
	all, err := catalog.AllAssets()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportDirAndRemove(t *testing.T) {
	root, i := setupLibrary(t)
	_, err := i.Import()
	require.NoError(t, err)

	p := writeFile(t, root, "Artist/Album/Track One/ac3.m4a", []byte("ac3"))
	_, err = i.ImportDir(filepath.Dir(p))
	require.NoError(t, err)

	track, err := catalog.FindAssetByName("Artist/Album/Track One")
	require.NoError(t, err)
	variant, ok := track.Variant(codec.AC3)
	require.True(t, ok)
	assert.EqualValues(t, 3, variant.Size)
	assert.Equal(t, "local#"+p, variant.Locator)

	n, err := i.RemovePath(p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	track, _ = catalog.FindAssetByName("Artist/Album/Track One")
	assert.False(t, track.VariantSet().Has(codec.AC3))
}

func TestImportMissingRoot(t *testing.T) {
	i := NewImporter(filepath.Join(t.TempDir(), "nope"), 1)
	defer i.Shutdown()
	_, err := i.Import()
	assert.True(t, errdefs.IsNotFound(err), "got %v", err)
}

func TestStatLocal(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a/alac.m4a", []byte("alac"))

	node, err := statLocal(p)
	require.NoError(t, err)
	assert.False(t, node.IsDir())
	assert.EqualValues(t, 4, node.Size())
	assert.Equal(t, p, node.Path())

	node, err = statLocal(filepath.Dir(p))
	require.NoError(t, err)
	assert.True(t, node.IsDir())

	_, err = statLocal(filepath.Join(dir, "missing.m4a"))
	assert.True(t, errdefs.IsNotFound(err), "got %v", err)
}

func TestWatcher(t *testing.T) {
	root, i := setupLibrary(t)
	_, err := i.Import()
	require.NoError(t, err)

	w, err := i.Watch(10 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	hasAC3 := func() bool {
		track, err := catalog.FindAssetByName("Artist/Album/Track One")
		return err == nil && track.VariantSet().Has(codec.AC3)
	}

	p := writeFile(t, root, "Artist/Album/Track One/ac3.m4a", []byte("ac3"))
	assert.Eventually(t, hasAC3, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(p))
	assert.Eventually(t, func() bool { return !hasAC3() }, 5*time.Second, 20*time.Millisecond)
}
