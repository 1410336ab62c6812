package apis

import (
	"runtime"

	"github.com/go-ole/go-ole"
)

// sFalse is returned by CoInitializeEx when COM is already set up on the thread.
const sFalse = 0x00000001

func (c *Controller) useSystem() error {
	c.setVolume = c.setEndpointVolume
	c.setBrightness = c.setMonitorBrightness
	return nil
}

// withCOM runs fn on a locked OS thread with COM initialized.
func withCOM(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != sFalse {
			return err
		}
	}
	defer ole.CoUninitialize()
	return fn()
}
