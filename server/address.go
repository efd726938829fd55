package server

import (
	"net"
	"strconv"
)

const fallbackHost = "127.0.0.1"

// interfaceAddrs is replaced in tests.
var interfaceAddrs = net.InterfaceAddrs

// ResolveHost returns host, or the first non-loopback IPv4 address of the
// machine when host is empty. The loopback address is the last resort.
func ResolveHost(host string) string {
	if host != "" {
		return host
	}
	addrs, err := interfaceAddrs()
	if err != nil {
		return fallbackHost
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return fallbackHost
}

// URL is the server URL written into the document.
func URL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}
