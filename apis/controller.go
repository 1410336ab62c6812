package apis

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

const (
	BackendSystem = "system"
	BackendDummy  = "dummy"
)

var ErrUnsupported = fmt.Errorf("system device control is not supported on %s", runtime.GOOS)

var errPercentRange = errors.New("percentage must be between 0 and 100")

// Controller applies volume and brightness levels through one backend.
type Controller struct {
	logger        *slog.Logger
	setVolume     func(percent int) error
	setBrightness func(percent int) error
}

func New(backend string, logger *slog.Logger) (*Controller, error) {
	c := &Controller{logger: logger}
	switch backend {
	case BackendSystem:
		if err := c.useSystem(); err != nil {
			return nil, err
		}
	case BackendDummy:
		c.setVolume = c.dummy("volume")
		c.setBrightness = c.dummy("brightness")
	default:
		return nil, fmt.Errorf("unknown device backend %q", backend)
	}
	return c, nil
}

func (c *Controller) SetVolumeLevel(percent int) error {
	if percent < 0 || percent > 100 {
		return errPercentRange
	}
	return c.setVolume(percent)
}

func (c *Controller) SetBrightnessLevel(percent int) error {
	if percent < 0 || percent > 100 {
		return errPercentRange
	}
	return c.setBrightness(percent)
}

func (c *Controller) dummy(kind string) func(int) error {
	return func(percent int) error {
		c.logger.Info("dummy device", "kind", kind, "percent", percent)
		return nil
	}
}
