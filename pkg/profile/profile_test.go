package profile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go3964r"
	"go3964r/pkg/profile"
)

func TestLoadProfilesFromFile(t *testing.T) {
	profiles, err := profile.Load("testdata/profiles.ini")
	require.NoError(t, err)
	require.Contains(t, profiles, "buderus-logamatic")
	require.Contains(t, profiles, "3964r-default")
	require.Contains(t, profiles, "3964-default")

	logamatic := profiles["buderus-logamatic"]
	assert.Equal(t, go3964r.Low, logamatic.Priority)
	assert.Equal(t, go3964r.WithBCC, logamatic.Mode)
	assert.Equal(t, 2*time.Second, logamatic.QVZ)
	assert.Equal(t, 220*time.Millisecond, logamatic.ZVZ)
	assert.Equal(t, 4*time.Second, logamatic.BWZ)
	assert.Equal(t, 3*time.Second, logamatic.CWZ)
	assert.Equal(t, 500*time.Millisecond, logamatic.SPZ)
	assert.Equal(t, 1400*time.Millisecond, logamatic.SLP)
	assert.Equal(t, 6, logamatic.MaxSend)
	assert.Equal(t, 6, logamatic.MaxConnect)

	plain := profiles["3964-default"]
	assert.Equal(t, go3964r.WithoutBCC, plain.Mode)
}

func TestLoadRejectsInvalidPriority(t *testing.T) {
	_, err := profile.Load([]byte("[bad]\nPriority = MEDIUM\n"))
	assert.Error(t, err)
}
