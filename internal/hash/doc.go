// Package hash provides hashing helpers for float vectors.
//
// # Canonical encoding
//
// Descriptions are bucketed by exact numeric equality. IEEE-754 has two
// encodings of zero and many encodings of NaN, so raw bits are not a valid
// hash key. CanonicalBits folds them so that equal values always encode to
// identical bytes:
//
//	key := hash.AppendFloat64s(nil, values)
//	sum := hash.Float64s(values)
//
// # CRC32-Castagnoli (CRC32C)
//
// Checksums use CRC32C, which Go's hash/crc32 accelerates with SSE4.2 on
// x86-64 and the CRC extension on ARM64.
package hash
