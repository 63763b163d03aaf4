package discovery

import "testing"

func TestHostURLs(t *testing.T) {
	h := &Host{Instance: "pi", Hostname: "pi.local.", IP: "192.168.1.10", Port: 5000}
	if got := h.BaseURL(); got != "http://192.168.1.10:5000" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := h.String(); got != "pi (pi.local.) at 192.168.1.10:5000" {
		t.Errorf("String() = %q", got)
	}

	v6 := &Host{IP: "fe80::1", Port: 5000}
	if got := v6.BaseURL(); got != "http://[fe80::1]:5000" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestHostNilMetadata(t *testing.T) {
	h := &Host{}
	if h.GetMetadata("path") != "" || h.Version() != "" {
		t.Error("nil metadata should yield empty values")
	}
}
