package hash

import (
	"encoding/binary"
	"hash/crc32"
	"math"
)

// crc32cTable is pre-computed for the CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// CanonicalBits returns the IEEE-754 bits of v with every NaN collapsed to a
// single quiet NaN and negative zero mapped to positive zero.
//
// Two float64 values compare equal under this mapping exactly when they are
// numerically identical (with NaN treated as equal to itself).
func CanonicalBits(v float64) uint64 {
	switch {
	case v == 0:
		return 0
	case v != v:
		return 0x7FF8000000000001
	default:
		return math.Float64bits(v)
	}
}

// AppendFloat64s appends the canonical little-endian encoding of values to dst.
func AppendFloat64s(dst []byte, values []float64) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint64(dst, CanonicalBits(v))
	}
	return dst
}

// Float64s returns the CRC32C of the canonical encoding of values.
func Float64s(values []float64) uint32 {
	var stack [128]byte
	return CRC32C(AppendFloat64s(stack[:0], values))
}
