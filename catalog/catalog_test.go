package catalog

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

func setupTest(t *testing.T) func() {
	dbc, err := NewDb(DatabaseOptions{Connection: InMemory})
	require.NoError(t, err)

	return func() {
		dbc.Close()
	}
}

func createTrack(t *testing.T) *MediaAsset {
	asset := &MediaAsset{
		Name:     "Track One",
		Kind:     KindAudio,
		OwnerRef: "album:42",
		Variants: []CodecVariant{
			{Codec: string(codec.AACLegacy), Locator: "local#/music/one/aac-legacy.m4a", Size: 1000},
			{Codec: string(codec.ALAC), Locator: "local#/music/one/alac.m4a", Size: 4000},
		},
	}
	require.NoError(t, CreateAsset(asset))
	return asset
}

func TestCreateAssetAssignsUUID(t *testing.T) {
	defer setupTest(t)()
	asset := createTrack(t)

	assert.NotEmpty(t, asset.UUID)

	found, err := FindAssetByUUID(asset.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Track One", found.Name)
	assert.Len(t, found.Variants, 2)
	assert.Equal(t, []codec.ID{codec.AACLegacy, codec.ALAC}, found.VariantSet().IDs())
	assert.Equal(t, codec.ID(""), found.Preferred())
}

func TestCreateAssetRejectsUnknownKind(t *testing.T) {
	defer setupTest(t)()
	assert.Error(t, CreateAsset(&MediaAsset{Name: "x", Kind: "hologram"}))
}

func TestFindAssetByUUIDNotFound(t *testing.T) {
	defer setupTest(t)()
	_, err := FindAssetByUUID("missing")
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestSetPreferredCodec(t *testing.T) {
	defer setupTest(t)()
	asset := createTrack(t)

	updated, err := SetPreferredCodec(asset.UUID, codec.ALAC)
	require.NoError(t, err)
	assert.Equal(t, codec.ALAC, updated.Preferred())

	found, err := FindAssetByUUID(asset.UUID)
	require.NoError(t, err)
	assert.Equal(t, codec.ALAC, found.Preferred())
}

func TestSetPreferredCodecRejectsMissingVariant(t *testing.T) {
	defer setupTest(t)()
	asset := createTrack(t)

	_, err := SetPreferredCodec(asset.UUID, codec.Atmos)
	assert.True(t, errors.Is(err, errdefs.ErrInvalidCodec))
	found, _ := FindAssetByUUID(asset.UUID)
	assert.Nil(t, found.PreferredCodec)

	_, err = SetPreferredCodec(asset.UUID, codec.AACLegacy)
	require.NoError(t, err)
	_, err = SetPreferredCodec(asset.UUID, codec.Atmos)
	assert.True(t, errors.Is(err, errdefs.ErrInvalidCodec))
	found, _ = FindAssetByUUID(asset.UUID)
	assert.Equal(t, codec.AACLegacy, found.Preferred())

	_, err = SetPreferredCodec("missing", codec.ALAC)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestClearPreferredCodec(t *testing.T) {
	defer setupTest(t)()
	asset := createTrack(t)

	_, err := SetPreferredCodec(asset.UUID, codec.ALAC)
	require.NoError(t, err)
	cleared, err := ClearPreferredCodec(asset.UUID)
	require.NoError(t, err)
	assert.Nil(t, cleared.PreferredCodec)

	found, _ := FindAssetByUUID(asset.UUID)
	assert.Nil(t, found.PreferredCodec)
}

func TestUpsertVariant(t *testing.T) {
	defer setupTest(t)()
	asset, err := FindOrCreateAsset("Artist Video", KindVideo, "artist:7")
	require.NoError(t, err)

	again, err := FindOrCreateAsset("Artist Video", KindVideo, "artist:7")
	require.NoError(t, err)
	assert.Equal(t, asset.UUID, again.UUID)

	_, err = UpsertVariant(asset, "h264", "local#/video/a.mp4", 10)
	require.NoError(t, err)
	_, err = UpsertVariant(asset, "h264", "local#/video/b.mp4", 20)
	require.NoError(t, err)

	found, err := FindAssetByUUID(asset.UUID)
	require.NoError(t, err)
	require.Len(t, found.Variants, 1)
	assert.Equal(t, "local#/video/b.mp4", found.Variants[0].Locator)
	assert.EqualValues(t, 20, found.Variants[0].Size)

	n, err := DeleteVariantsByLocator("local#/video/b.mp4")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	found, _ = FindAssetByUUID(asset.UUID)
	assert.Empty(t, found.Variants)
}

func TestPreferenceStore(t *testing.T) {
	defer setupTest(t)()
	store := PreferenceStore{}

	order, err := store.LoadPreferences()
	require.NoError(t, err)
	assert.Empty(t, order)

	want := codec.All()
	want[0], want[1] = want[1], want[0]
	require.NoError(t, store.SavePreferences(want))
	require.NoError(t, store.SavePreferences(want))

	order, err = store.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, want, order)
}

func TestMediaKind(t *testing.T) {
	assert.True(t, KindAudio.Seekable())
	assert.True(t, KindVideo.Seekable())
	assert.False(t, KindImage.Seekable())
	assert.False(t, MediaKind("x").Valid())
}
