package session

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiefmaster/levelremote/comm"
)

type fakeDevice struct {
	mu            sync.Mutex
	volumeErr     error
	brightnessErr error
	volumes       []int
	brightnesses  []int
}

func (d *fakeDevice) SetVolumeLevel(percent int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volumes = append(d.volumes, percent)
	return d.volumeErr
}

func (d *fakeDevice) SetBrightnessLevel(percent int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightnesses = append(d.brightnesses, percent)
	return d.brightnessErr
}

func newTestHandler(device DeviceController) (*Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(device, logger), &buf
}

func TestOnMessageAppliesEveryStep(t *testing.T) {
	device := &fakeDevice{}
	h, _ := newTestHandler(device)

	for step := comm.MinStep; step <= comm.MaxStep; step++ {
		require.Equal(t, fmt.Sprintf("Volume set to %d%%", step*10), h.OnMessage("10.0.0.2", fmt.Sprintf("a_%d", step)))
		require.Equal(t, fmt.Sprintf("Brightness set to %d%%", step*10), h.OnMessage("10.0.0.2", fmt.Sprintf("b_%d", step)))
	}
	require.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, device.volumes)
	require.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, device.brightnesses)
}

func TestOnMessageDeviceFailure(t *testing.T) {
	device := &fakeDevice{
		volumeErr:     errors.New("no audio endpoint"),
		brightnessErr: errors.New("WmiSetBrightness failed"),
	}
	h, logs := newTestHandler(device)

	require.Equal(t, "Error setting volume: no audio endpoint", h.OnMessage("10.0.0.2", "a_3"))
	require.Equal(t, "Error setting brightness: WmiSetBrightness failed", h.OnMessage("10.0.0.2", "b_3"))
	require.Contains(t, logs.String(), "level=ERROR")
	require.Contains(t, logs.String(), `msg="device error" kind=volume percent=30 error="no audio endpoint"`)
	require.Contains(t, logs.String(), `msg="device error" kind=brightness percent=30`)
}

func TestOnMessageInvalidSkipsDevice(t *testing.T) {
	device := &fakeDevice{}
	h, _ := newTestHandler(device)

	require.Equal(t, comm.InvalidBrightnessLevel, h.OnMessage("10.0.0.2", "b_12"))
	require.Equal(t, comm.InvalidAudioLevel, h.OnMessage("10.0.0.2", "a_0"))
	require.Equal(t, comm.InvalidFormat, h.OnMessage("10.0.0.2", "hello"))
	require.Empty(t, device.volumes)
	require.Empty(t, device.brightnesses)
}

func TestLifecycleLogging(t *testing.T) {
	h, logs := newTestHandler(&fakeDevice{})

	h.OnOpen("192.168.1.20")
	h.OnMessage("192.168.1.20", "a_5")
	h.OnError("192.168.1.20", errors.New("read failed"))
	h.OnClose("192.168.1.20")

	out := logs.String()
	require.Contains(t, out, `msg="device connected" peer=192.168.1.20`)
	require.Contains(t, out, `msg="received message" peer=192.168.1.20 message=a_5`)
	require.Contains(t, out, `msg=action peer=192.168.1.20 response="Volume set to 50%"`)
	require.Contains(t, out, `msg="session error" peer=192.168.1.20 error="read failed"`)
	require.Contains(t, out, `msg="connection lost" peer=192.168.1.20`)
}
