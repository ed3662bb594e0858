// Package hash provides the CRC32-Castagnoli checksum used to detect
// corrupted scan index files.
//
//	sum := hash.CRC32C(body)
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(body)
//	sum = h.Sum32()
//
// hash/crc32 selects the SSE4.2 or ARMv8 CRC instructions when present.
package hash
