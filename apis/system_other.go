//go:build !windows && !linux

package apis

func (c *Controller) useSystem() error {
	return ErrUnsupported
}
