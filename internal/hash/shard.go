package hash

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Shard maps key to a shard in [0, n) using CRC32-Castagnoli. The mapping
// is stable across runs and platforms.
func Shard(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(crc32.Checksum([]byte(key), castagnoli) % uint32(n))
}
