package badger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/storage"
)

// Key prefixes for different data types
const (
	catalogEntryPrefix = "catent"
	catalogIDSeq       = "catseq"
	synonymEntryPrefix = "synent"
)

// validateTable rejects table names that would break key prefixes.
func validateTable(table string) error {
	if table == "" || strings.ContainsRune(table, ':') {
		return fmt.Errorf("%w: table name %q", storage.ErrInvalidQuery, table)
	}
	return nil
}

// makeCatalogPrefix generates the key prefix shared by all entries of a table.
// Format: prefix:table:
func makeCatalogPrefix(table string) []byte {
	return []byte(catalogEntryPrefix + ":" + table + ":")
}

// makeCatalogKey generates a key for a catalog entry.
// Format: prefix:table:id with the ID in BigEndian order so keys sort by ID.
func makeCatalogKey(table string, id core.ID) []byte {
	prefix := makeCatalogPrefix(table)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCatalogSeqKey names the ID sequence of a table.
func makeCatalogSeqKey(table string) string {
	return catalogIDSeq + ":" + table
}

// makeSynonymPrefix generates the key prefix shared by all entries of a kind.
// Format: prefix:kind:
func makeSynonymPrefix(kind core.SynonymKind) []byte {
	return []byte(synonymEntryPrefix + ":" + strconv.Itoa(int(kind)) + ":")
}

// makeSynonymKey generates a key for a synonym entry.
// Format: prefix:kind:id
func makeSynonymKey(kind core.SynonymKind, id core.ID) []byte {
	prefix := makeSynonymPrefix(kind)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
