package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gitlab.com/olaris/olaris-variants/capability"
	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
)

func TestNewTestingAppContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	env := NewTestingAppContext()
	defer env.Cleanup()

	assert.Equal(t, codec.All(), env.Preferences.Snapshot())
	assert.Nil(t, env.Capabilities("nope"), "headless map should support everything")

	_, err := env.Preferences.Move(codec.AAC, 0)
	require.NoError(t, err)

	stored, err := catalog.PreferenceStore{}.LoadPreferences()
	require.NoError(t, err)
	assert.Equal(t, codec.AAC, stored[0])
}

func TestStaticCapabilities(t *testing.T) {
	env, err := NewAppContext(Options{
		Database:           catalog.DatabaseOptions{Connection: catalog.InMemory},
		StaticCapabilities: []string{"alac", "aac-legacy"},
		TicketSecret:       "testing",
	})
	require.NoError(t, err)
	defer env.Cleanup()

	caps := env.Capabilities("")
	assert.True(t, caps.Supports(codec.ALAC))
	assert.False(t, caps.Supports(codec.Atmos))

	id, _ := env.Sessions.Establish("", &capability.MimeProbe{PlayableCodecs: []string{codec.Atmos.MimeType()}}, codec.All())
	caps = env.Capabilities(id)
	assert.True(t, caps.Supports(codec.Atmos))
	assert.False(t, caps.Supports(codec.ALAC))
}

func TestSessionSweeper(t *testing.T) {
	env, err := NewAppContext(Options{
		Database:      catalog.DatabaseOptions{Connection: catalog.InMemory},
		SessionTTL:    time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
		TicketSecret:  "testing",
	})
	require.NoError(t, err)
	defer env.Cleanup()

	env.Sessions.Establish("s1", capability.NewStaticMatrix(nil), codec.All())
	assert.Eventually(t, func() bool { return env.Sessions.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCleanupTwice(t *testing.T) {
	env := NewTestingAppContext()
	env.Cleanup()
	assert.NotPanics(t, env.Cleanup)
}
