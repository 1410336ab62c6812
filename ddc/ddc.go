//go:build windows

// Package ddc drives external monitors over DDC/CI through dxva2.
package ddc

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	// command codes
	vcpBrightness = 0x10
)

var ErrNoMonitors = errors.New("no DDC/CI capable monitors found")

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dxva2  = windows.NewLazySystemDLL("dxva2.dll")

	enumDisplayMonitorsProc         = user32.NewProc("EnumDisplayMonitors")
	getNumberOfPhysicalMonitorsProc = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	getPhysicalMonitorsProc         = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	destroyPhysicalMonitorsProc     = dxva2.NewProc("DestroyPhysicalMonitors")
	getVCPFeatureProc               = dxva2.NewProc("GetVCPFeatureAndVCPFeatureReply")
	setVCPFeatureProc               = dxva2.NewProc("SetVCPFeature")

	enumMonitorsCallback = windows.NewCallback(func(hmon, hdc, rect, data uintptr) uintptr {
		return collectMonitor(hmon)
	})

	// EnumDisplayMonitors calls back synchronously, enumMu serializes callers.
	enumMu       sync.Mutex
	enumMonitors []windows.Handle
)

func collectMonitor(hmon uintptr) uintptr {
	enumMonitors = append(enumMonitors, windows.Handle(hmon))
	return 1
}

type physicalMonitor struct {
	handle      windows.Handle
	description [128]uint16
}

func displayMonitors() ([]windows.Handle, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumMonitors = nil
	ret, _, err := enumDisplayMonitorsProc.Call(0, 0, enumMonitorsCallback, 0)
	monitors := enumMonitors
	enumMonitors = nil
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %v", err)
	}
	return monitors, nil
}

func physicalMonitors(hmon windows.Handle) ([]physicalMonitor, error) {
	var count uint32
	if ret, _, err := getNumberOfPhysicalMonitorsProc.Call(uintptr(hmon), uintptr(unsafe.Pointer(&count))); ret == 0 {
		return nil, fmt.Errorf("GetNumberOfPhysicalMonitorsFromHMONITOR failed: %v", err)
	}
	if count == 0 {
		return nil, nil
	}
	monitors := make([]physicalMonitor, count)
	if ret, _, err := getPhysicalMonitorsProc.Call(uintptr(hmon), uintptr(count), uintptr(unsafe.Pointer(&monitors[0]))); ret == 0 {
		return nil, fmt.Errorf("GetPhysicalMonitorsFromHMONITOR failed: %v", err)
	}
	return monitors, nil
}

// setVCPFeatureAll sets code on every physical monitor to percent of that
// monitor's own maximum.
func setVCPFeatureAll(code byte, percent int) error {
	hmons, err := displayMonitors()
	if err != nil {
		return err
	}

	applied := 0
	var errs []error
	for _, hmon := range hmons {
		monitors, err := physicalMonitors(hmon)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, m := range monitors {
			if err := setVCPFeature(m.handle, code, percent); err != nil {
				errs = append(errs, err)
			} else {
				applied++
			}
		}
		if len(monitors) > 0 {
			destroyPhysicalMonitorsProc.Call(uintptr(len(monitors)), uintptr(unsafe.Pointer(&monitors[0])))
		}
	}

	if applied > 0 {
		return nil
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return ErrNoMonitors
}

func setVCPFeature(handle windows.Handle, code byte, percent int) error {
	var vcpType, current, maxValue uint32
	ret, _, _ := getVCPFeatureProc.Call(uintptr(handle), uintptr(code),
		uintptr(unsafe.Pointer(&vcpType)), uintptr(unsafe.Pointer(&current)), uintptr(unsafe.Pointer(&maxValue)))
	if ret == 0 || maxValue == 0 {
		// no usable range reported, most monitors use 0..100
		maxValue = 100
	}
	value := uint32(percent) * maxValue / 100
	if ret, _, err := setVCPFeatureProc.Call(uintptr(handle), uintptr(code), uintptr(value)); ret == 0 {
		return fmt.Errorf("SetVCPFeature failed: %v", err)
	}
	return nil
}

func SetBrightness(percent int) error {
	return setVCPFeatureAll(vcpBrightness, percent)
}
