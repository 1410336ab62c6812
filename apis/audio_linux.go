package apis

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// volumeNorm is PA_VOLUME_NORM, i.e. 100% without software amplification.
const volumeNorm = 0x10000

type sinkInfo struct {
	id       string
	name     string
	channels int
}

// sinkVolumeClient is the part of a pulse connection setPulseVolume needs.
type sinkVolumeClient interface {
	DefaultSink() (sinkInfo, error)
	SetSinkVolume(id string, volumes pulseproto.ChannelVolumes) error
	Close()
}

var dialPulse = func() (sinkVolumeClient, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName("levelremote"))
	if err != nil {
		return nil, err
	}
	return pulseClient{client}, nil
}

type pulseClient struct {
	client *pulse.Client
}

func (p pulseClient) DefaultSink() (sinkInfo, error) {
	sink, err := p.client.DefaultSink()
	if err != nil {
		return sinkInfo{}, err
	}
	return sinkInfo{id: sink.ID(), name: sink.Name(), channels: len(sink.Channels())}, nil
}

func (p pulseClient) SetSinkVolume(id string, volumes pulseproto.ChannelVolumes) error {
	return p.client.RawRequest(&pulseproto.SetSinkVolume{
		SinkIndex:      pulseproto.Undefined,
		SinkName:       id,
		ChannelVolumes: volumes,
	}, nil)
}

func (p pulseClient) Close() {
	p.client.Close()
}

func (c *Controller) setPulseVolume(percent int) error {
	client, err := dialPulse()
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	sink, err := client.DefaultSink()
	if err != nil {
		return fmt.Errorf("read default sink: %w", err)
	}

	volumes := make(pulseproto.ChannelVolumes, sink.channels)
	for i := range volumes {
		volumes[i] = pulseVolume(percent)
	}
	if err := client.SetSinkVolume(sink.id, volumes); err != nil {
		return fmt.Errorf("set volume of %s: %w", sink.name, err)
	}
	c.logger.Debug("volume applied", "sink", sink.name, "percent", percent)
	return nil
}

func pulseVolume(percent int) uint32 {
	return uint32(percent * volumeNorm / 100)
}
