// ABOUTME: mDNS advertisement for the remote control bridge
// ABOUTME: Publishes the bridge endpoint as _wavetag._tcp on the local network
package discovery

import (
	"fmt"
	"log"
	"net"

	"github.com/hashicorp/mdns"
)

const serviceType = "_wavetag._tcp"

// Advertiser publishes the bridge service until Shutdown
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces the bridge instance on the given port
func Advertise(instance string, port int) (*Advertiser, error) {
	ips, err := getLocalIPs()
	if err != nil {
		return nil, fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		instance,
		serviceType,
		"",
		"",
		port,
		ips,
		[]string{"path=/wavetag"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", instance, port, serviceType)

	return &Advertiser{server: server}, nil
}

// Shutdown stops the advertisement
func (a *Advertiser) Shutdown() {
	if a.server != nil {
		_ = a.server.Shutdown()
	}
}

// getLocalIPs returns non-loopback IPv4 addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
