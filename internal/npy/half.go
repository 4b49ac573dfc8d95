package npy

import "math"

// halfToFloat32 widens an IEEE 754 binary16 value. Every half value is
// exactly representable in float32, so the conversion is lossless.
func halfToFloat32(bits uint16) float32 {
	sign := uint32(bits>>15) << 31
	exp := uint32(bits>>10) & 0x1f
	frac := uint32(bits & 0x3ff)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal: normalize into float32 range
		shift := uint32(0)
		for frac&0x400 == 0 {
			frac <<= 1
			shift++
		}
		frac &= 0x3ff
		return math.Float32frombits(sign | (127-14-shift)<<23 | frac<<13)
	case 0x1f:
		// inf / nan
		return math.Float32frombits(sign | 0xff<<23 | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
	}
}
