// Package discovery finds gpiostatus servers on the local network over mDNS.
//
// A server started with --advertise registers itself as a "_gpiostatus._tcp"
// service in the "local." domain. Its TXT records carry the API path and the
// server version:
//
//	path=/api/plugin/gpiostatus
//	version=v0.3.0
//
// # Usage Example
//
//	hosts, err := discovery.Scan(context.Background(), 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range hosts {
//	    fmt.Println(h.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Hosts must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
