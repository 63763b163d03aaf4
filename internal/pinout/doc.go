// Package pinout defines the GPIO status payload exchanged between the
// gpiostatus host and its viewers.
//
// A payload describes the physical pin header of a Raspberry Pi (its grid
// geometry and every pin in connector order), the state of the system
// services configured through raspi-config, the board's static hardware
// facts, and which host commands were available to collect all of this.
//
// # Header Geometry
//
// Only two-column headers are supported. Pins are listed in physical order,
// so pins 2k-1 and 2k share one header row:
//
//	 1 (3V3)   2 (5V)
//	 3 (GPIO2) 4 (5V)
//	 ...
//
// Status.Validate rejects anything else with ErrUnsupportedLayout.
//
// # Ordering
//
// Order returns the pins sorted by name: BCM pins by GPIO number first,
// then power and ground pins alphabetically.
package pinout
