package pinout

import "sort"

// Order returns a copy of pins sorted by name. BCM pins come first in GPIO
// number order, then the remaining pins lexicographically. The sort is stable
// and the input slice is left untouched.
func Order(pins []Pin) []Pin {
	ordered := make([]Pin, len(pins))
	copy(ordered, pins)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

func less(a, b Pin) bool {
	switch {
	case a.IsBCM && b.IsBCM:
		return orderNumber(a) < orderNumber(b)
	case a.IsBCM != b.IsBCM:
		return a.IsBCM
	default:
		return a.Name < b.Name
	}
}

// orderNumber ranks a BCM pin without a numeric suffix as -1.
func orderNumber(p Pin) int {
	if n, ok := p.BCMNumber(); ok {
		return n
	}
	return -1
}
