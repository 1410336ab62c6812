package apis

import (
	"fmt"

	"github.com/moutend/go-wca/pkg/wca"
)

func (c *Controller) setEndpointVolume(percent int) error {
	return withCOM(func() error {
		var mmde *wca.IMMDeviceEnumerator
		if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
			return fmt.Errorf("could not create device enumerator: %v", err)
		}
		defer mmde.Release()

		var mmd *wca.IMMDevice
		if err := mmde.GetDefaultAudioEndpoint(wca.ERender, wca.EMultimedia, &mmd); err != nil {
			return fmt.Errorf("no default audio endpoint: %v", err)
		}
		defer mmd.Release()

		var aev *wca.IAudioEndpointVolume
		if err := mmd.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &aev); err != nil {
			return fmt.Errorf("could not activate endpoint volume: %v", err)
		}
		defer aev.Release()

		if err := aev.SetMasterVolumeLevelScalar(float32(percent)/100, nil); err != nil {
			return err
		}

		if name, err := getDeviceShortName(mmd); err == nil {
			c.logger.Debug("volume applied", "endpoint", name, "percent", percent)
		}
		return nil
	})
}

func getDeviceShortName(mmd *wca.IMMDevice) (string, error) {
	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return "", err
	}
	defer ps.Release()

	var pv wca.PROPVARIANT
	if err := ps.GetValue(&wca.PKEY_Device_FriendlyName, &pv); err != nil {
		return "", err
	}
	return pv.String(), nil
}
