package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Host is a discovered gpiostatus server.
type Host struct {
	// Instance is the advertised instance name (e.g., "gpiostatus on octopi")
	Instance string

	// Hostname is the mDNS hostname (e.g., "octopi.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 when the host has no IPv4 address
	IP string

	// Port is the HTTP port of the status API
	Port int

	// Metadata contains the TXT record data ("path", "version")
	Metadata map[string]string

	// DiscoveredAt is when the host answered
	DiscoveredAt time.Time
}

// String returns a human-readable representation of the host
func (h *Host) String() string {
	return fmt.Sprintf("%s (%s) at %s", h.Instance, h.Hostname, net.JoinHostPort(h.IP, strconv.Itoa(h.Port)))
}

// BaseURL returns the HTTP base URL of the server
func (h *Host) BaseURL() string {
	return "http://" + net.JoinHostPort(h.IP, strconv.Itoa(h.Port))
}

// Version returns the advertised server version, or "" when absent.
func (h *Host) Version() string {
	return h.GetMetadata(TXTVersion)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (h *Host) GetMetadata(key string) string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata[key]
}
