package storage

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes the identity of entries: variant, guid, name, and
// position. ExportedAt is not part of the hash, so re-exporting an unchanged
// catalog yields the same fingerprint.
func Fingerprint(entries []CatalogEntry) string {
	h := xxh3.New()
	var buf []byte
	for _, entry := range entries {
		buf = buf[:0]
		buf = append(buf, entry.Variant.String()...)
		buf = append(buf, 0)
		buf = append(buf, entry.GUID...)
		buf = append(buf, 0)
		buf = append(buf, entry.Name...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(entry.Position), 10)
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
