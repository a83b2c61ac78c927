package sqlite

// slideOffset is 2^63, the distance between the unsigned and signed
// 64-bit domains.
const slideOffset = uint64(1) << 63

// encodeUint64 maps the full unsigned 64-bit range onto the full signed
// 64-bit range while preserving order: 0 maps to math.MinInt64,
// math.MaxUint64 maps to math.MaxInt64. The subtraction wraps in two's
// complement, so the mapping is total and bijective.
func encodeUint64(v uint64) int64 {
	return int64(v - slideOffset)
}

// decodeUint64 inverts encodeUint64.
func decodeUint64(v int64) uint64 {
	return uint64(v) + slideOffset
}
