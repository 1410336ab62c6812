package main

import (
	"errors"
	"net"
	"os"
)

var errNoIPv4 = errors.New("no network adapters with an IPv4 address in the system")

// localIPv4 returns the first IPv4 address the host name resolves to,
// preferring a non-loopback one.
func localIPv4() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return firstIPv4(net.LookupIP, host)
}

func firstIPv4(lookup func(string) ([]net.IP, error), host string) (string, error) {
	ips, err := lookup(host)
	if err != nil {
		return "", err
	}
	var loopback net.IP
	for _, ip := range ips {
		v4 := ip.To4()
		if v4 == nil {
			continue
		}
		if !v4.IsLoopback() {
			return v4.String(), nil
		}
		if loopback == nil {
			loopback = v4
		}
	}
	if loopback != nil {
		return loopback.String(), nil
	}
	return "", errNoIPv4
}
