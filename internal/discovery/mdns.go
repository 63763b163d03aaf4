package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/statusclient"
)

const (
	// ServiceType is the mDNS service type of gpiostatus servers
	ServiceType = "_gpiostatus._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for host discovery
	DefaultScanTimeout = 5 * time.Second

	// TXT record keys
	TXTPath    = "path"
	TXTVersion = "version"
)

// Scanner handles mDNS host discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan browses for servers until the timeout expires or ctx is done. Hosts
// are returned sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu    sync.Mutex
		hosts = make(map[string]*Host)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			host := parseServiceEntry(entry)
			if host == nil {
				continue
			}
			logging.Debug("Discovered gpiostatus server", zap.String("host", host.String()))
			mu.Lock()
			hosts[host.Instance] = host
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Host, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out, nil
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Host, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}

// parseServiceEntry converts a zeroconf entry to a Host.
// Returns nil when the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Host {
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" || entry.Port == 0 {
		return nil
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	if path, ok := metadata[TXTPath]; ok && path != statusclient.APIPath {
		logging.Debug("Ignoring service with foreign API path",
			zap.String("instance", entry.Instance),
			zap.String("path", path),
		)
		return nil
	}

	instance := entry.Instance
	if instance == "" {
		instance = entry.HostName
	}

	return &Host{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// TXTRecords are the records a server advertises.
func TXTRecords(version string) []string {
	return []string{TXTPath + "=" + statusclient.APIPath, TXTVersion + "=" + version}
}

// Advertiser keeps an mDNS registration alive.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers a server under instance on port.
func Advertise(instance string, port int, version string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecords(version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the registration.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
