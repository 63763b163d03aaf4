package server

import (
	"net"
	"testing"
)

// newStartedServer serves s on a loopback port and returns its base URL.
func newStartedServer(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = s.Serve(ln) }()
	return "http://" + ln.Addr().String()
}
