package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ClampExtent clamps a framebuffer dimension to at least 1 so surface and depth buffer sizes stay valid.
// A minimized window reports 0x0.
func ClampExtent(v int) uint32 {
	if v < 1 {
		return 1
	}
	return uint32(v)
}
