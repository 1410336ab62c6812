package apis

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDummyBackend(t *testing.T) {
	var logs bytes.Buffer
	c, err := New(BackendDummy, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	require.NoError(t, c.SetVolumeLevel(40))
	require.NoError(t, c.SetBrightnessLevel(100))
	require.Contains(t, logs.String(), `msg="dummy device" kind=volume percent=40`)
	require.Contains(t, logs.String(), `msg="dummy device" kind=brightness percent=100`)
}

func TestPercentRange(t *testing.T) {
	c, err := New(BackendDummy, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)

	require.ErrorIs(t, c.SetVolumeLevel(-1), errPercentRange)
	require.ErrorIs(t, c.SetBrightnessLevel(101), errPercentRange)
	require.NoError(t, c.SetVolumeLevel(0))
}

func TestUnknownBackend(t *testing.T) {
	_, err := New("serial", slog.Default())
	require.EqualError(t, err, `unknown device backend "serial"`)
}
