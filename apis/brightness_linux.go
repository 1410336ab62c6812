package apis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var backlightRoot = "/sys/class/backlight"

var errNoBacklight = errors.New("no backlight devices found")

// setBacklight applies percent to every backlight the kernel exposes.
func (c *Controller) setBacklight(percent int) error {
	devices, err := filepath.Glob(filepath.Join(backlightRoot, "*"))
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errNoBacklight
	}

	var errs []error
	for _, dir := range devices {
		if err := writeBacklight(dir, percent); err != nil {
			errs = append(errs, err)
			continue
		}
		c.logger.Debug("brightness applied", "device", filepath.Base(dir), "percent", percent)
	}
	return errors.Join(errs...)
}

func writeBacklight(dir string, percent int) error {
	raw, err := os.ReadFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return fmt.Errorf("could not read max brightness of %s: %w", filepath.Base(dir), err)
	}
	maxLevel, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("could not parse max brightness of %s: %w", filepath.Base(dir), err)
	}
	value := (percent*maxLevel + 50) / 100
	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("could not set brightness of %s: %w", filepath.Base(dir), err)
	}
	return nil
}
