package apis

import (
	"fmt"
	"math"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/thiefmaster/levelremote/ddc"
)

// setMonitorBrightness goes through WMI, which covers laptop panels. Desktops
// usually expose no WmiMonitorBrightnessMethods instances, in which case the
// external monitors are driven over DDC/CI instead.
func (c *Controller) setMonitorBrightness(percent int) error {
	var applied int
	wmiErr := withCOM(func() (err error) {
		applied, err = setWMIBrightness(percent)
		return err
	})
	if wmiErr == nil && applied > 0 {
		c.logger.Debug("brightness applied", "via", "wmi", "monitors", applied, "percent", percent)
		return nil
	}

	if err := ddc.SetBrightness(percent); err != nil {
		if wmiErr != nil {
			return fmt.Errorf("%v; %v", wmiErr, err)
		}
		return err
	}
	c.logger.Debug("brightness applied", "via", "ddc", "percent", percent)
	return nil
}

func setWMIBrightness(percent int) (int, error) {
	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return 0, fmt.Errorf("could not create WMI locator: %v", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return 0, fmt.Errorf("could not query WMI locator: %v", err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, `root\wmi`)
	if err != nil {
		return 0, fmt.Errorf("could not connect to root\\wmi: %v", err)
	}
	service := serviceRaw.ToIDispatch()
	defer service.Release()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", "SELECT * FROM WmiMonitorBrightnessMethods")
	if err != nil {
		return 0, fmt.Errorf("could not query WmiMonitorBrightnessMethods: %v", err)
	}
	result := resultRaw.ToIDispatch()
	defer result.Release()

	countVar, err := oleutil.GetProperty(result, "Count")
	if err != nil {
		return 0, fmt.Errorf("could not count monitors: %v", err)
	}
	count := int(countVar.Val)

	for i := 0; i < count; i++ {
		itemRaw, err := oleutil.CallMethod(result, "ItemIndex", i)
		if err != nil {
			return i, fmt.Errorf("could not get monitor %d: %v", i, err)
		}
		item := itemRaw.ToIDispatch()
		_, err = oleutil.CallMethod(item, "WmiSetBrightness", uint32(math.MaxUint32), uint8(percent))
		item.Release()
		if err != nil {
			return i, fmt.Errorf("WmiSetBrightness failed: %v", err)
		}
	}
	return count, nil
}
