package apis

func (c *Controller) useSystem() error {
	c.setVolume = c.setPulseVolume
	c.setBrightness = c.setBacklight
	return nil
}
