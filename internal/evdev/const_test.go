//go:build linux

package evdev

import "testing"

func TestEVIOCGBITMatchesKernelEncoding(t *testing.T) {
	// EVIOCGBIT(EV_REL, REL_MAX) is a well-known constant on amd64/arm64:
	// _IOC(_IOC_READ, 'E', 0x20 + EV_REL, REL_MAX_BYTES).
	got := EVIOCGBIT(int(EV_REL), 2)
	want := uintptr(2<<30) | uintptr(2<<16) | uintptr('E'<<8) | uintptr(0x20+EV_REL)
	if got != want {
		t.Fatalf("EVIOCGBIT(EV_REL, 2) = %#x, want %#x", got, want)
	}
}

func TestEVIOCGABSMatchesKernelEncoding(t *testing.T) {
	got := EVIOCGABS(0)
	want := uintptr(2<<30) | uintptr(24<<16) | uintptr('E'<<8) | uintptr(0x40)
	if got != want {
		t.Fatalf("EVIOCGABS(0) = %#x, want %#x", got, want)
	}
}

func TestScrollDeviceIdentityIsStable(t *testing.T) {
	if ScrollDeviceName == "" {
		t.Fatal("ScrollDeviceName must not be empty")
	}
	if len(ScrollDeviceID) != 4 {
		t.Fatalf("expected a 4-element bus/vendor/product/version ID, got %d", len(ScrollDeviceID))
	}
}
